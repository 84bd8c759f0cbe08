package config

import (
	"os"
	"reflect"
	"strconv"
)

// applyEnvOverrides 按字段env标签应用环境变量覆盖
func applyEnvOverrides(c *TransferConfig) {
	val := reflect.ValueOf(c).Elem()
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		key := typ.Field(i).Tag.Get("env")
		if key == "" {
			continue
		}
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int:
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				field.SetInt(n)
			}
		case reflect.Bool:
			if b, err := strconv.ParseBool(raw); err == nil {
				field.SetBool(b)
			}
		}
	}
}
