// Package httpclient provides the HTTP plumbing for completion requests.
//
// [NewRequestBuilder] validates a target URL and static headers once; each call to
// [RequestBuilder.Build] then produces a JSON POST request with credentials injected
// by an optional [AuthProvider]:
//
//	builder, err := httpclient.NewRequestBuilder(url, headers, provider)
//	if err != nil {
//		return err
//	}
//	req, err := builder.Build(ctx, payload)
//
// [NewClient] returns a client whose idle pool is sized to the burst, so a
// concurrent batch does not churn connections:
//
//	client := httpclient.NewClient(60*time.Second, requests)
//
// [ReadBody] buffers a response body up to a fixed limit.
package httpclient
