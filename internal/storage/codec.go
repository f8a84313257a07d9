package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoadJSON lit et valide une collection. Clé absente : fallback sans erreur.
// Valeur illisible : fallback et une erreur enveloppant ErrMalformed, à l'appelant
// de décider s'il repart de zéro.
func LoadJSON[T any](ctx context.Context, s Store, key string, fallback T) (T, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("lecture %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return fallback, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	if err := validateValue(v); err != nil {
		return fallback, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return v, nil
}

// SaveJSON sérialise v et remplace la valeur de la clé
func SaveJSON(ctx context.Context, s Store, key string, v any, scope Scope) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encodage %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data), scope); err != nil {
		return fmt.Errorf("écriture %s: %w", key, err)
	}
	return nil
}

func validateValue(v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Struct:
		return validate.Struct(v)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := validateElem(rv.Index(i)); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if err := validateElem(iter.Value()); err != nil {
				return fmt.Errorf("[%v]: %w", iter.Key(), err)
			}
		}
	}
	return nil
}

func validateElem(e reflect.Value) error {
	if e.Kind() == reflect.Pointer {
		if e.IsNil() {
			return errors.New("élément nul")
		}
		e = e.Elem()
	}
	if e.Kind() != reflect.Struct {
		return nil
	}
	return validate.Struct(e.Interface())
}
