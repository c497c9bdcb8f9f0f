// Package filter resolves which posts a listing shows and renders them.
//
// A Filter is a per-invocation state machine:
//
//	Idle --Fetch--> Loaded --Render--> Rendered
//	  \--Fetch fails--> Error
//
// The grouped path (a "tag" or "category" query parameter) looks up the group
// whose name equals the parameter value exactly; the free-text path filters
// the flat dataset by title, description and tags, ignoring case. Post order
// is always the dataset order.
//
// A Page owns the posts container and is the only writer to it. Every load or
// search takes a token from a monotonic counter; only the completion holding
// the latest token is written, so overlapping searches resolve to the most
// recently initiated one.
package filter
