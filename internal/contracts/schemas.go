package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemasFS embed.FS

// Имена схем тел запросов REST API
const (
	ResolveBuildingRequest = "resolve_building"
	AssignCadastreRequest  = "assign_cadastre"
	CollectRoomsRequest    = "collect_rooms"
	CaptureDocumentRequest = "capture_document"
)

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	err := fs.WalkDir(schemasFS, "schemas", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}
		file, err := schemasFS.Open(p)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(p, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", p, err)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	err = fs.WalkDir(schemasFS, "schemas", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".json") {
			return nil
		}
		schema, err := compiler.Compile(p)
		if err != nil {
			return fmt.Errorf("failed to compile schema %s: %w", p, err)
		}
		key := strings.TrimSuffix(path.Base(p), ".json")
		compiledSchemas[key] = schema
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and compiling schemas: %v", err)
	}
}

// ValidateRequest проверяет тело запроса по именованной схеме
func ValidateRequest(name string, body []byte) error {
	schema, ok := compiledSchemas[name]
	if !ok {
		return fmt.Errorf("schema %q not found", name)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("request body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
