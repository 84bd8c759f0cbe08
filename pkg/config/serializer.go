package config

import (
	"bytes"
	"encoding/json"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v2"
)

// Serializer 配置格式的编解码接口
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
	Ext() string  // 文件扩展名（如.yml/.json）
	Name() string // 格式名称
}

// YAMLSerializer YAML格式
type YAMLSerializer struct{}

func (y *YAMLSerializer) Marshal(v interface{}) ([]byte, error)      { return yaml.Marshal(v) }
func (y *YAMLSerializer) Unmarshal(data []byte, v interface{}) error { return yaml.Unmarshal(data, v) }
func (y *YAMLSerializer) Ext() string                                { return ".yml" }
func (y *YAMLSerializer) Name() string                               { return "yaml" }

// JSONSerializer JSON格式
type JSONSerializer struct{}

func (j *JSONSerializer) Marshal(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
func (j *JSONSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (j *JSONSerializer) Ext() string                                { return ".json" }
func (j *JSONSerializer) Name() string                               { return "json" }

// INISerializer INI格式
type INISerializer struct{}

func (i *INISerializer) Marshal(v interface{}) ([]byte, error) {
	f := ini.Empty()
	if err := f.ReflectFrom(v); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (i *INISerializer) Unmarshal(data []byte, v interface{}) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}
	return f.MapTo(v)
}

func (i *INISerializer) Ext() string  { return ".ini" }
func (i *INISerializer) Name() string { return "ini" }
