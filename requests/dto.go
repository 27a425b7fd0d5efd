package requests

import "github.com/brettbedarf/filetree"

// NodeRequestDTO is the JSON/YAML representation of one node definition
type NodeRequestDTO struct {
	Path string                         `json:"path" yaml:"path"`
	Type filetree.NodeCreateRequestType `json:"type" yaml:"type"`
	UUID *string                        `json:"uuid,omitempty" yaml:"uuid,omitempty"` // Optional id; generated when absent
	// Contents is stored as raw text bytes. Absent means nil contents,
	// which is distinct from "".
	Contents *string `json:"contents,omitempty" yaml:"contents,omitempty"`
	// Length defaults to len(Contents)
	Length *int `json:"length,omitempty" yaml:"length,omitempty"`
}
