// Package meili is a client for the Meilisearch HTTP API.
//
// A [Client] shares one [core.Executor] between its endpoint groups:
//
//	client, err := meili.New("http://localhost:7700", meili.WithAPIKey(masterKey))
//	if err != nil {
//	    return err
//	}
//	info, err := client.Index("movies").AddDocuments(ctx, movies, "id")
//	if err != nil {
//	    return err
//	}
//	task, err := client.Tasks.Wait(ctx, info.TaskUID, meili.WaitOptions{})
//
// Write operations are asynchronous on the server: they return a [TaskInfo]
// that can be polled with [TasksService.Wait].
//
// Tenant tokens are generated locally from the client's key:
//
//	token, err := client.GenerateTenantToken(keyUID,
//	    tenant.SearchRules{"movies": map[string]any{"filter": "user_id = 1"}},
//	    tenant.Options{ExpiresAt: &exp})
package meili
