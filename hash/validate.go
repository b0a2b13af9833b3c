package hash

import (
	"reflect"

	"github.com/cockroachdb/errors"
)

// validate walks value and rejects anything the hasher cannot serialize:
// funcs, chans, unsafe pointers, and reference cycles. Cycles are tracked
// through pointers and maps, the only kinds through which a value can reach
// itself.
func validate(value any) error {
	if value == nil {
		return nil
	}
	return walk(reflect.ValueOf(value), make(map[uintptr]bool))
}

func walk(v reflect.Value, seen map[uintptr]bool) error {
	switch v.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return errors.WithDetailf(ErrHashInput, "unsupported kind %s", v.Kind())
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return walk(v.Elem(), seen)
	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		ptr := v.Pointer()
		if seen[ptr] {
			return errors.WithDetail(ErrHashInput, "cyclic reference")
		}
		seen[ptr] = true
		err := walk(v.Elem(), seen)
		delete(seen, ptr)
		return err
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		ptr := v.Pointer()
		if seen[ptr] {
			return errors.WithDetail(ErrHashInput, "cyclic reference")
		}
		seen[ptr] = true
		iter := v.MapRange()
		for iter.Next() {
			if err := walk(iter.Key(), seen); err != nil {
				return err
			}
			if err := walk(iter.Value(), seen); err != nil {
				return err
			}
		}
		delete(seen, ptr)
		return nil
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		ptr := v.Pointer()
		if seen[ptr] {
			return errors.WithDetail(ErrHashInput, "cyclic reference")
		}
		seen[ptr] = true
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), seen); err != nil {
				return err
			}
		}
		delete(seen, ptr)
		return nil
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), seen); err != nil {
				return err
			}
		}
		return nil
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if err := walk(v.Field(i), seen); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
