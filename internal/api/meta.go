package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/reference"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/schema"
)

// ===== META HANDLERS =====

type metaEntityListItem struct {
	Entity       string `json:"entity"`
	DisplayField string `json:"displayField,omitempty"`
}

func MetaListHandler(reg schema.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := make([]metaEntityListItem, 0, len(reg))
		for _, e := range reg {
			out = append(out, metaEntityListItem{Entity: e.Name, DisplayField: e.DisplayField})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Entity < out[j].Entity })
		c.JSON(http.StatusOK, out)
	}
}

type metaRule struct {
	Name    string `json:"name"`
	Param   any    `json:"param,omitempty"`
	Message string `json:"message"`
}

type metaField struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Required bool       `json:"required"`
	Ref      string     `json:"ref,omitempty"`
	Enum     []string   `json:"enum,omitempty"`
	Rules    []metaRule `json:"rules,omitempty"`
}

type metaEntity struct {
	Entity       string      `json:"entity"`
	DisplayField string      `json:"displayField,omitempty"`
	Fields       []metaField `json:"fields"`
}

// MetaEntityHandler describes one entity; time-dependent messages are
// rendered for the current instant.
func MetaEntityHandler(reg schema.Registry, clock func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, ok := reg.Lookup(c.Param("entity"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}
		c.JSON(http.StatusOK, describe(e, clock()))
	}
}

func describe(e *schema.Entity, now time.Time) metaEntity {
	fields := make([]metaField, 0, len(e.Fields))
	for _, f := range e.Fields {
		rules := make([]metaRule, 0, len(f.Rules))
		for _, r := range f.Rules {
			rules = append(rules, metaRule{Name: r.Name, Param: r.Param, Message: r.Message(now)})
		}
		fields = append(fields, metaField{
			Name:     f.Name,
			Type:     f.Kind.String(),
			Required: !f.AcceptsEmpty(),
			Ref:      f.Target,
			Enum:     append([]string(nil), f.Enum...),
			Rules:    rules,
		})
	}
	return metaEntity{Entity: e.Name, DisplayField: e.DisplayField, Fields: fields}
}

func MetaCatalogHandler(cat reference.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		dir, ok := cat[name]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Catalog not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"name":  name,
			"items": dir.Items,
		})
	}
}
