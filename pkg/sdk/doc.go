// Package matchdex provides a Go client for the matchdex profile search
// API: semantic plus attribute-filtered retrieval over a multi-vector
// profile index.
//
// # Quickstart
//
//	client, err := matchdex.New("http://localhost:8000",
//	    matchdex.WithAPIKey(os.Getenv("MATCHDEX_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Search(ctx, matchdex.SearchRequest{
//	    Query: "fit doctor in bangalore who loves trekking",
//	    Limit: 20,
//	})
//
// Structured criteria skip the natural-language parser entirely:
//
//	resp, err := client.Search(ctx, matchdex.SearchRequest{
//	    Filters: map[string]any{
//	        "genders": []string{"F"},
//	        "min_age": 25,
//	        "max_age": 30,
//	    },
//	})
//
// Ingestion takes the upstream source document as-is; the service decides
// per profile whether to index, patch, or skip:
//
//	res, err := client.Ingest(ctx, src)
//	fmt.Println(res.Decision) // "full_upsert", "smart_update", ...
//
// API errors carry the service's machine-readable code and unwrap to
// package sentinels, so errors.Is(err, matchdex.ErrProfileNotFound)
// works across the wire.
package matchdex
