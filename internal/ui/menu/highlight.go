package menu

import "github.com/zjrosen/compleet/internal/completion"

// MarkRequest is one highlight mark to register on the menu content.
type MarkRequest struct {
	ID       int
	Row      int
	StartCol int
	EndCol   int
	Group    string
}

// MarkRequests lists the marks for items, ordered by item then span.
// IDs start at 1 and are unique within one call.
func MarkRequests(items []completion.Item) []MarkRequest {
	var reqs []MarkRequest
	for row, item := range items {
		for _, span := range item.Spans {
			reqs = append(reqs, MarkRequest{
				ID:       len(reqs) + 1,
				Row:      row,
				StartCol: span.Start,
				EndCol:   span.End,
				Group:    span.Group,
			})
		}
	}
	return reqs
}
