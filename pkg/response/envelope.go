// Package response shapes resolver results into the uniform API envelope.
package response

import "strings"

// Kind declares the envelope shape a field produces. KindAuto lets Normalize
// infer the shape from the value.
type Kind string

const (
	KindAuto      Kind = ""
	KindSingle    Kind = "single"
	KindArray     Kind = "array"
	KindPaginated Kind = "paginated"
	KindDelete    Kind = "delete"
	KindBulk      Kind = "bulk"
	KindRaw       Kind = "raw"
)

type OperationType string

const (
	Query        OperationType = "query"
	Mutation     OperationType = "mutation"
	Subscription OperationType = "subscription"
)

type Meta struct {
	Kind    Kind
	Message string
}

type Operation struct {
	Name string
	Type OperationType
}

type Envelope struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Data        interface{} `json:"data,omitempty"`
	Meta        interface{} `json:"meta,omitempty"`
	Count       *int        `json:"count,omitempty"`
	AffectedIDs []string    `json:"affectedIds,omitempty"`
	DeletedID   string      `json:"deletedId,omitempty"`
}

// Pager is implemented by paginated results.
type Pager interface {
	Items() interface{}
	Pagination() interface{}
}

const NoDataMessage = "No data found"

func DefaultMessage(op Operation) string {
	if op.Type == Mutation {
		name := strings.ToLower(op.Name)
		switch {
		case strings.Contains(name, "create"):
			return "Resource created successfully"
		case strings.Contains(name, "update"):
			return "Resource updated successfully"
		case strings.Contains(name, "delete"):
			return "Resource deleted successfully"
		}
		return "Operation completed successfully"
	}
	return "Data retrieved successfully"
}
