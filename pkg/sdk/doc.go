// Package adaptrank provides an embedded Go client for the adaptrank
// retrieval-and-rerank engine backed by Redis with search modules.
//
// The client wires the same services the HTTP server uses, so batch
// ingest tooling and tests can run against a store directly without a
// running API process:
//
//	client, _ := adaptrank.New(ctx,
//	    adaptrank.WithRedis("localhost:6379", ""),
//	    adaptrank.WithEmbedder(embedder),
//	)
//	defer client.Close()
//
//	_ = client.AddDocument(ctx, "doc-1", "magnesium supports sleep", "health")
//	_ = client.Feedback(ctx, "doc-1", "vitamin", 10)
//	results, _ := client.Search(ctx, "vitamin", 10, "log")
package adaptrank
