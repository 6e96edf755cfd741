package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderedMap est un objet JSON dont l'ordre des clés est conservé
// Les objets "planning" et "totaux" du backend sont lus dans cet ordre pour
// que la première occurrence d'un produit soit bien la première rencontrée
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// Set ajoute ou remplace une valeur, une clé existante garde sa position
func (m *OrderedMap[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get retourne la valeur associée à key
func (m OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys retourne les clés dans l'ordre d'insertion
func (m OrderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len retourne le nombre de clés
func (m OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Each parcourt les entrées dans l'ordre d'insertion
func (m OrderedMap[V]) Each(fn func(key string, value V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// MarshalJSON écrit l'objet en respectant l'ordre d'insertion
func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("clé %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON lit un objet JSON clé par clé
func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	m.keys = nil
	m.values = nil
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("objet JSON attendu, reçu %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("clé JSON invalide: %v", tok)
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("clé %q: %w", key, err)
		}
		m.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
