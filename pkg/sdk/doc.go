// Package triage provides an embedded Go client for CI log triage queries
// against an Elasticsearch or OpenSearch cluster.
//
// It runs the same queries as the triage HTTP API without going through it:
//
//	client, _ := triage.New(ctx,
//	    triage.WithElasticsearch("http://localhost:9200"),
//	    triage.WithIndexPattern("cs1_logs-*"),
//	)
//	defer client.Close()
//
//	logs, _ := client.Logs().Train(ctx, "train-42", triage.WithPattern("OOM"))
//	page, _ := client.Search().Errors(ctx, "NullPointerException", triage.WithDays(3))
//	trains, _ := client.Stats().Trains(ctx, "NullPointerException")
//	timeline, _ := client.Stats().Timeline(ctx, "NullPointerException")
package triage
