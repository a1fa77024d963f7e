package entity

import (
	"sort"
	"strings"
)

// UserKind is the catalog kind of user entities.
const UserKind = "user"

// AnnotationPrefix é o caminho do campo de anotações nos filtros do catálogo.
const AnnotationPrefix = "metadata.annotations."

// EntityMetadata holds the identifying fields of a catalog entity.
type EntityMetadata struct {
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	UID         string            `json:"uid,omitempty"`
}

// Entity is a record tracked by the catalog service.
type Entity struct {
	APIVersion string                 `json:"apiVersion"`
	Kind       string                 `json:"kind"`
	Metadata   EntityMetadata         `json:"metadata"`
	Spec       map[string]interface{} `json:"spec,omitempty"`
}

// Ref returns the entity reference in kind:namespace/name form.
func (e Entity) Ref() string {
	namespace := e.Metadata.Namespace
	if namespace == "" {
		namespace = "default"
	}
	return strings.ToLower(e.Kind) + ":" + namespace + "/" + e.Metadata.Name
}

// EntityFilter maps dotted field paths to the value they must equal.
// All entries must match.
type EntityFilter map[string]string

// UserFilter builds the filter for user entities carrying all the annotations.
func UserFilter(annotations map[string]string) EntityFilter {
	filter := EntityFilter{"kind": UserKind}
	for key, value := range annotations {
		filter[AnnotationPrefix+key] = value
	}
	return filter
}

// Keys retorna as chaves do filtro em ordem estável.
func (f EntityFilter) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the filter as comma-separated key=value pairs.
func (f EntityFilter) String() string {
	parts := make([]string, 0, len(f))
	for _, k := range f.Keys() {
		parts = append(parts, k+"="+f[k])
	}
	return strings.Join(parts, ",")
}
