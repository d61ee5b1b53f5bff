package nav

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRouteTable indicates a malformed route table document.
var ErrInvalidRouteTable = errors.New("nav.invalid_route_table")

type routeTable struct {
	Routes []Route `yaml:"routes"`
}

// LoadRoutes decodes a YAML route table:
//
//	routes:
//	  - path: /students
//	    module: students
//	    name: Students
func LoadRoutes(r io.Reader) ([]Route, error) {
	var table routeTable
	if err := yaml.NewDecoder(r).Decode(&table); err != nil {
		return nil, errors.Join(ErrInvalidRouteTable, err)
	}

	for i, route := range table.Routes {
		if route.Path == "" || route.Module == "" {
			return nil, errors.Join(ErrInvalidRouteTable,
				fmt.Errorf("route %d: path and module are required", i))
		}
	}
	return table.Routes, nil
}

// LoadRoutesFile reads a YAML route table from disk.
func LoadRoutesFile(path string) ([]Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadRoutes(f)
}
