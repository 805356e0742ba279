package rtree

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/1F47E/go-polygon-index/pkg/models"
)

// IndexData represents the serializable form of the tree
type IndexData struct {
	Polygons []models.Polygon `json:"polygons"`
	Edges    int              `json:"edges"`
}

// SaveToFile saves the indexed polygons to a binary file. The hierarchy
// itself is not stored; LoadFromFile rebuilds it.
func (t *Tree) SaveToFile(filename string) error {
	data := IndexData{
		Polygons: t.Polygons(),
		Edges:    t.Len(),
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	return file.Close()
}

// LoadFromFile reads polygons saved by SaveToFile and builds a new tree
func LoadFromFile(filename string) (*Tree, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data IndexData
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}

	t := Build(data.Polygons)
	if t.Len() != data.Edges {
		return nil, fmt.Errorf("corrupt index %s: expected %d edges, found %d", filename, data.Edges, t.Len())
	}
	return t, nil
}
