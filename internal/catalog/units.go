package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/translation"
)

//go:embed units.schema.json
var unitsSchemaJSON string

const unitsSchemaName = "units.schema.json"

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// UnitError points at the unit a semantic check failed for.
type UnitError struct {
	Index int
	Key   string
	Err   error
}

func (e *UnitError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("units[%d]: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("units[%d] %s: %v", e.Index, e.Key, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }

// LoadUnitsFile reads and validates a unit file.
func LoadUnitsFile(path string) ([]translation.Unit, error) {
	raw, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("read unit file: %w", err)
	}
	units, err := ParseUnits(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return units, nil
}

// ParseUnits validates raw against the unit schema and the key rules and
// returns the units in file order. Either {"units": [...]} or a bare array is
// accepted. Units without a context get the entity of their key.
func ParseUnits(raw []byte) ([]translation.Unit, error) {
	value, err := decodeStrictJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode unit JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	items := value
	if object, ok := value.(map[string]any); ok {
		items = object["units"]
	}
	normalized, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("normalize unit JSON: %w", err)
	}

	var units []translation.Unit
	if err := json.Unmarshal(normalized, &units); err != nil {
		return nil, fmt.Errorf("unmarshal units: %w", err)
	}

	if err := validateSemantics(units); err != nil {
		return nil, err
	}
	return units, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource(unitsSchemaName, strings.NewReader(unitsSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile(unitsSchemaName)
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("unit file is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("unit file contains trailing content")
	}

	return value, nil
}

// validateSemantics trims the units in place, fills in default contexts and
// reports every malformed or repeated key.
func validateSemantics(units []translation.Unit) error {
	var errs []error
	seen := make(map[string]int, len(units))

	for idx := range units {
		unit := &units[idx]
		unit.Key = strings.TrimSpace(unit.Key)
		unit.Context = strings.TrimSpace(unit.Context)

		parsed, err := ParseKey(unit.Key)
		if err != nil {
			errs = append(errs, &UnitError{Index: idx, Key: unit.Key, Err: err})
			continue
		}
		if first, dup := seen[unit.Key]; dup {
			errs = append(errs, &UnitError{Index: idx, Key: unit.Key, Err: fmt.Errorf("duplicate key, first defined at units[%d]", first)})
			continue
		}
		seen[unit.Key] = idx

		if unit.Context == "" {
			unit.Context = parsed.Entity
		}
	}

	return errors.Join(errs...)
}
