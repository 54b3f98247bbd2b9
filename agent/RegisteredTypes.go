package agent

import (
	"reflect"

	log "github.com/sirupsen/logrus"
)

// Type represents a specific type of a ConfigList. ConfigLists of
// this type create Policies of the corresponding type.
type Type string

const (
	// MultiCategorical Policies sample joint actions from
	// distribution.MultiCategorical
	MultiCategorical Type = "MultiCategorical"
)

// Registered types with the package. Once a Type has been registered
// with this map, a TypedConfigList with that type can be deserialized.
var registeredTypes map[Type]reflect.Type

func init() {
	registeredTypes = make(map[Type]reflect.Type)
	Register(MultiCategorical, CategoricalConfigList{})
}

// Register registers a Type with a concrete ConfigList type so that
// upon deserialization of a TypedConfigList, ConfigLists of type
// configType are deserialized into the concrete type of configs.
func Register(configType Type, configs ConfigList) {
	log.WithField("type", configType).Debug("registering config list")
	registeredTypes[configType] = reflect.TypeOf(configs)
}
