package dqm

import "github.com/geocache/stc/internal/qr"

// Query is the concrete Request built from a client's Query
// Reference, grounded on
// original_source/mapping/cache/index/query_manager/simple_query_manager.cpp's
// PendingQuery: it carries enough locality information (Center) for
// dema/bema to score it, and an optional explicit node pin for the
// simple strategy's TargetNode. Most callers construct it with
// NewQuery; NewPinnedQuery is for the simple strategy only.
type Query struct {
	QR   qr.QR
	pin  string
	bind string
}

// NewQuery builds a Query with no explicit node pin, for the dema/bema
// strategies to place by locality.
func NewQuery(q qr.QR) *Query {
	return &Query{QR: q}
}

// NewPinnedQuery builds a Query explicitly targeting node, for the
// simple strategy.
func NewPinnedQuery(q qr.QR, node string) *Query {
	return &Query{QR: q, pin: node}
}

// Center is the query bbox's midpoint.
func (q *Query) Center() Point2 {
	return Point2{X: (q.QR.X1 + q.QR.X2) / 2, Y: (q.QR.Y1 + q.QR.Y2) / 2}
}

// TargetNode satisfies internal/dqm/simple.Request.
func (q *Query) TargetNode() string { return q.pin }

// Bind records the node Placement actually bound this query to. Called
// by Controller.Submit once CreateJob returns.
func (q *Query) Bind(nodeID string) { q.bind = nodeID }

// IsAffectedByNode reports whether nodeID is the node this query is
// currently bound to. A Query that was never submitted (bind=="") is
// affected by nothing.
func (q *Query) IsAffectedByNode(nodeID string) bool {
	return q.bind != "" && q.bind == nodeID
}
