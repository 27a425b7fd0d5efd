package requests

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/filetree"
)

// Batch holds decoded create requests in file order, split by kind
type Batch struct {
	Dirs  []*filetree.DirCreateRequest
	Files []*filetree.FileCreateRequest
}

// Len returns the total number of requests
func (b *Batch) Len() int {
	return len(b.Dirs) + len(b.Files)
}

// GetNodeType extracts the node type from JSON without full unmarshaling
func GetNodeType(data []byte) (filetree.NodeCreateRequestType, error) {
	var meta struct {
		Type filetree.NodeCreateRequestType `json:"type"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", err
	}
	return meta.Type, nil
}

// UnmarshalFileRequest decodes a single JSON file definition
func UnmarshalFileRequest(data []byte) (*filetree.FileCreateRequest, error) {
	var dto NodeRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return convertFileDTO(dto), nil
}

// UnmarshalDirRequest decodes a single JSON directory definition
func UnmarshalDirRequest(data []byte) (*filetree.DirCreateRequest, error) {
	var dto NodeRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return &filetree.DirCreateRequest{NodeRequest: convertNodeDTO(dto)}, nil
}

// ParseJSON decodes a JSON array of node definitions
func ParseJSON(data []byte) (*Batch, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node definitions: %w", err)
	}

	batch := &Batch{}
	for i, raw := range raws {
		nodeType, err := GetNodeType(raw)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		switch nodeType {
		case filetree.FileNodeType:
			req, err := UnmarshalFileRequest(raw)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
			batch.Files = append(batch.Files, req)
		case filetree.DirNodeType:
			req, err := UnmarshalDirRequest(raw)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
			batch.Dirs = append(batch.Dirs, req)
		default:
			return nil, fmt.Errorf("node %d: unknown node type %q", i, nodeType)
		}
	}
	return batch, nil
}

// ParseYAML decodes a YAML sequence of node definitions
func ParseYAML(data []byte) (*Batch, error) {
	var dtos []NodeRequestDTO
	if err := yaml.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node definitions: %w", err)
	}

	batch := &Batch{}
	for i, dto := range dtos {
		switch dto.Type {
		case filetree.FileNodeType:
			batch.Files = append(batch.Files, convertFileDTO(dto))
		case filetree.DirNodeType:
			batch.Dirs = append(batch.Dirs, &filetree.DirCreateRequest{NodeRequest: convertNodeDTO(dto)})
		default:
			return nil, fmt.Errorf("node %d: unknown node type %q", i, dto.Type)
		}
	}
	return batch, nil
}

// LoadFile reads node definitions from path; the format follows the
// extension (see [RegisterFormat])
func LoadFile(path string) (*Batch, error) {
	parse, err := GetFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func convertFileDTO(dto NodeRequestDTO) *filetree.FileCreateRequest {
	var contents []byte
	if dto.Contents != nil {
		contents = []byte(*dto.Contents)
	}
	return &filetree.FileCreateRequest{
		NodeRequest: convertNodeDTO(dto),
		Contents:    contents,
		Length:      valueOrDefault(dto.Length, len(contents)),
	}
}

func convertNodeDTO(dto NodeRequestDTO) filetree.NodeRequest {
	return filetree.NodeRequest{
		Path: dto.Path,
		Type: dto.Type,
		UUID: valueOrDefault(dto.UUID, uuid.New().String()),
	}
}

func valueOrDefault[T any](ptr *T, defaultVal T) T {
	if ptr != nil {
		return *ptr
	}
	return defaultVal
}
