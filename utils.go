package yatb

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/jehiah/go-strftime"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Properties map[string]string

func NewProperties() Properties {
	return make(Properties)
}

func (self Properties) Get(key string) string {
	v, _ := self[key]
	return v
}

func (self Properties) GetDefault(key string, defaultValue string) string {
	if v, ok := self[key]; ok {
		return v
	}
	return defaultValue
}

func (self Properties) Add(key, value string) {
	self[key] = value
}

// Merge copies all the key/value pairs in other into self, overwriting
// the existing ones.
func (self Properties) Merge(other Properties) {
	for k, v := range other {
		self[k] = v
	}
}

// Keys returns the property names in sorted order.
func (self Properties) Keys() []string {
	ret := make([]string, 0, len(self))
	for k := range self {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// LoadProperties reads a property file. The format is taken from the file
// extension (properties, yaml, json, toml); files without an extension are
// read as java style properties. Nested keys are flattened with dots.
func LoadProperties(filename string) (Properties, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	if filepath.Ext(filename) == "" {
		v.SetConfigType("properties")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "fail to load property file %s", filename)
	}
	props := NewProperties()
	for _, key := range v.AllKeys() {
		props.Add(key, v.GetString(key))
	}
	return props, nil
}

// ExpandPath expands strftime directives like %Y%m%d in path with the time t.
func ExpandPath(path string, t time.Time) string {
	if len(path) == 0 {
		return path
	}
	return strftime.Format(path, t)
}

func MillisecondToNanosecond(millis int64) int64 {
	return millis * 1000 * 1000
}

func NanosecondToMicrosecond(nanos int64) int64 {
	return nanos / 1000
}

func MicrosecondToMillisecond(micros int64) float64 {
	return float64(micros) / 1000
}

func OutputProperties(p Properties) {
	Println("***************** properties *****************")
	for _, k := range p.Keys() {
		Println("\"%s\"=\"%s\"", k, p[k])
	}
	Println("**********************************************")
}
