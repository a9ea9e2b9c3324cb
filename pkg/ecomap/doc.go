// Package ecomap embeds the Houston innovation directory search in a Go program.
//
// The client ranks firms, startups and communities with BM25 over their
// names, tags, attributes and descriptions, and filters them by tags.
// Entities come from a YAML seed file or a Postgres database, optionally
// behind a Redis list cache and a circuit breaker.
//
//	client, _ := ecomap.New(ctx, ecomap.WithSeedFile("config/seed.yaml"))
//	defer client.Close()
//
//	res, _ := client.Search(ctx, "energy accelerator",
//	    ecomap.WithTags("climate"),
//	    ecomap.WithLimit(10),
//	)
//	for _, hit := range res.Hits {
//	    fmt.Println(hit.Name, hit.Score)
//	}
//
//	firms, _ := client.List(ctx, ecomap.KindFirm)
package ecomap
