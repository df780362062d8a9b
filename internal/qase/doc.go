// Package qase provides a scope-based client for the Qase TestOps v1 API.
//
// Usage:
//
//	client, err := qase.New(qase.DefaultBaseURL, token, qase.WithTimeout(30*time.Second))
//	cases, err := client.Project("CR").Cases().ListAll(ctx)
//	err = client.Project("CR").Cases().Update(ctx, 42, update)
//	fields, err := client.CustomFields().ListAll(ctx)
//
// Every response arrives in the Qase envelope {"status": bool, "result": ...};
// list results are paginated with limit/offset and a running total.
package qase
