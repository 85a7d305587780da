package redirect

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

// HandleProxy adapts Resolve to API Gateway proxy events, the request shape
// serverless Go functions receive.
func (r *Resolver) HandleProxy(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := req.QueryStringParameters["id"]
	if id == "" {
		if values := req.MultiValueQueryStringParameters["id"]; len(values) > 0 {
			id = values[0]
		}
	}

	resp := r.Resolve(ctx, id)
	headers := map[string]string{"Content-Type": "text/plain; charset=utf-8"}
	if resp.Location != "" {
		headers["Location"] = resp.Location
	}
	return events.APIGatewayProxyResponse{
		StatusCode: resp.Status,
		Headers:    headers,
		Body:       resp.Body,
	}, nil
}
