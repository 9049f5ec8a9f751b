package block

import (
	"sort"
	"strings"
)

// DefaultNamespace используется, когда пространство имён не указано
const DefaultNamespace = "minecraft"

// Property представляет одно свойство состояния блока
type Property struct {
	Key   string
	Value string
}

// State описывает состояние блока: пространство имён, имя и набор свойств.
// Значение неизменяемо после создания и сравнивается по содержимому.
type State struct {
	namespace  string
	name       string
	properties []Property // отсортированы по ключу
}

// NewState создаёт состояние блока. Карта свойств копируется.
func NewState(namespace, name string, props map[string]string) State {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	properties := make([]Property, 0, len(props))
	for k, v := range props {
		properties = append(properties, Property{Key: k, Value: v})
	}
	sort.Slice(properties, func(i, j int) bool {
		return properties[i].Key < properties[j].Key
	})

	return State{
		namespace:  namespace,
		name:       name,
		properties: properties,
	}
}

// Namespace возвращает пространство имён
func (s State) Namespace() string { return s.namespace }

// Name возвращает базовое имя блока
func (s State) Name() string { return s.name }

// NamespacedName возвращает "namespace:name"
func (s State) NamespacedName() string {
	return s.namespace + ":" + s.name
}

// Property возвращает значение свойства по ключу
func (s State) Property(key string) (string, bool) {
	i := sort.Search(len(s.properties), func(i int) bool {
		return s.properties[i].Key >= key
	})
	if i < len(s.properties) && s.properties[i].Key == key {
		return s.properties[i].Value, true
	}
	return "", false
}

// Properties возвращает копию свойств в виде карты
func (s State) Properties() map[string]string {
	props := make(map[string]string, len(s.properties))
	for _, p := range s.properties {
		props[p.Key] = p.Value
	}
	return props
}

// IsAir сообщает, является ли блок воздухом
func (s State) IsAir() bool {
	switch s.name {
	case "air", "cave_air", "void_air":
		return true
	}
	return false
}

// IsZero сообщает, что состояние не было инициализировано
func (s State) IsZero() bool {
	return s.namespace == "" && s.name == ""
}

// Equal сравнивает состояния по содержимому
func (s State) Equal(other State) bool {
	if s.namespace != other.namespace || s.name != other.name {
		return false
	}
	if len(s.properties) != len(other.properties) {
		return false
	}
	for i := range s.properties {
		if s.properties[i] != other.properties[i] {
			return false
		}
	}
	return true
}

// Key возвращает каноническую строку вида namespace:name[k=v,...].
// Равные состояния всегда дают одинаковый ключ.
func (s State) Key() string {
	var b strings.Builder
	b.WriteString(s.namespace)
	b.WriteByte(':')
	b.WriteString(s.name)
	if len(s.properties) > 0 {
		b.WriteByte('[')
		for i, p := range s.properties {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Key)
			b.WriteByte('=')
			b.WriteString(p.Value)
		}
		b.WriteByte(']')
	}
	return b.String()
}

// String реализует fmt.Stringer
func (s State) String() string {
	return s.Key()
}

// ParseState разбирает каноническую строку, полученную из Key
func ParseState(key string) State {
	namespace, rest := DefaultNamespace, key
	if i := strings.IndexByte(key, ':'); i >= 0 && (strings.IndexByte(key, '[') < 0 || i < strings.IndexByte(key, '[')) {
		namespace, rest = key[:i], key[i+1:]
	}

	name, props := rest, map[string]string{}
	if i := strings.IndexByte(rest, '['); i >= 0 && strings.HasSuffix(rest, "]") {
		name = rest[:i]
		for _, pair := range strings.Split(rest[i+1:len(rest)-1], ",") {
			if pair == "" {
				continue
			}
			k, v, _ := strings.Cut(pair, "=")
			props[k] = v
		}
	}
	return NewState(namespace, name, props)
}
