package agent

import (
	"encoding/json"
	"os"
	"reflect"

	"github.com/ElisevanderPol/marl-homomorphic-networks/utils/errutils"
	"github.com/pkg/errors"
)

// TypedConfigList implements functionality for typing a ConfigList.
// In this way, a ConfigList can explicitly have its type stored so
// that when deserializing the ConfigList, we can deserialize it into
// its concrete type without knowing beforehand or declaring beforehand
// a variable of its concrete type.
//
// A TypedConfigList is serialized as {"Type": ..., "ConfigList": ...}.
type TypedConfigList struct {
	ConfigList
}

// NewTypedConfigList types the argument ConfigList and returns it
// as a TypedConfigList which explicitly holds its Type.
func NewTypedConfigList(c ConfigList) TypedConfigList {
	return TypedConfigList{ConfigList: c}
}

// MarshalJSON implements the json.Marshaler interface
func (t TypedConfigList) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       Type
		ConfigList ConfigList
	}{t.ConfigList.Type(), t.ConfigList})
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (t *TypedConfigList) UnmarshalJSON(data []byte) error {
	configs, _, err := unmarshalConfigList(
		data,
		"Type",
		"ConfigList")
	if err != nil {
		return err
	}

	t.ConfigList = configs
	return nil
}

// unmarshalConfigList uses reflection to unmarshal a ConfigList into
// its concrete type. Both the ConfigList and its Type are returned.
func unmarshalConfigList(data []byte, typeJSONField,
	valueJSONField string) (ConfigList, Type, error) {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, "", err
	}

	var typeName Type
	if err := json.Unmarshal(m[typeJSONField], &typeName); err != nil {
		return nil, "", errors.Wrap(err, "unmarshalConfigList: type")
	}

	ty, found := registeredTypes[typeName]
	if !found {
		return nil, "", errutils.New(errutils.InvalidConfiguration,
			"unmarshalConfigList", "unregistered type %q", typeName)
	}

	value := reflect.New(ty)
	if err := json.Unmarshal(m[valueJSONField], value.Interface()); err != nil {
		return nil, "", errors.Wrapf(err, "unmarshalConfigList: %v",
			typeName)
	}

	return value.Elem().Interface().(ConfigList), typeName, nil
}

// LoadConfigList reads a JSON encoded TypedConfigList from the file at
// path
func LoadConfigList(path string) (TypedConfigList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TypedConfigList{}, errors.Wrapf(err,
			"loadConfigList: could not read %v", path)
	}

	var t TypedConfigList
	if err := json.Unmarshal(data, &t); err != nil {
		return TypedConfigList{}, errors.Wrapf(err,
			"loadConfigList: could not decode %v", path)
	}
	return t, nil
}
