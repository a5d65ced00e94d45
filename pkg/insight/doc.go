// Package insight embeds the startup ecosystem query pipeline in a Go program.
//
// A Client normalizes queries, forwards them to the remote ranking service,
// optionally caches responses in Redis and turns the returned narrative and
// matches into a View with grounded recommendations.
//
//	client, _ := insight.New(ctx,
//	    insight.WithUpstream("http://ranker:9000", os.Getenv("RANKER_KEY")),
//	    insight.WithRedisCache("localhost:6379", "", 5*time.Minute),
//	)
//	defer client.Close()
//
//	view, _ := client.Search(ctx, "investors backing w23 fintech", insight.TopK(5))
//	for _, rec := range view.Recommendations {
//	    fmt.Println(insight.PlainText(rec))
//	}
//
// Present renders a response the caller already holds without any network call.
package insight
