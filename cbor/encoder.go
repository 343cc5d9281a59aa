package cbor

import (
	"math"
	"reflect"

	"github.com/creachadair/cbor/bytebuf"
	"github.com/creachadair/cbor/errs"
)

// Encoder serializes Go values as framed CBOR items. The zero value is not
// usable; construct one with NewEncoder so the default type registrations
// (Array, Date, Bytes, BufferStream, RegExp, Simple, in that order) are in
// place.
type Encoder struct {
	registry    []typeRegistryEntry
	compression *compressionOption
}

// NewEncoder returns an Encoder with the default semantic type registry
// installed.
func NewEncoder() *Encoder {
	e := &Encoder{}
	e.installDefaults()
	return e
}

// Pack serializes v as a single top-level item and returns the framed
// bytes.
func (e *Encoder) Pack(v any) ([]byte, error) {
	buf := bytebuf.New()
	if err := e.PackInto(v, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PackInto serializes v and appends the framed bytes into buf, which the
// caller supplies (and may already hold other output).
func (e *Encoder) PackInto(v any, buf *bytebuf.Buffer) error {
	return e.pack(v, buf)
}

// Pack is the package-level one-shot convenience: it constructs a default
// Encoder, packs v, and returns the framed bytes.
func Pack(v any) ([]byte, error) {
	return NewEncoder().Pack(v)
}

// pack is the dispatch algorithm: unsafePack in spec terms.
func (e *Encoder) pack(v any, buf *bytebuf.Buffer) error {
	switch t := v.(type) {
	case nil:
		buf.WriteByte(prefixUndef)
		return nil
	case Null:
		buf.WriteByte(prefixNull)
		return nil
	case Undefined:
		buf.WriteByte(prefixUndef)
		return nil
	case Tagged:
		if err := packInt(buf, t.Tag, mtTagged); err != nil {
			return err
		}
		return e.pack(t.Value, buf)
	case bool:
		return e.packBool(buf, t)
	case string:
		return e.packText(buf, t)
	}

	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Invalid:
		buf.WriteByte(prefixUndef)
		return nil
	case reflect.Bool:
		return e.packBool(buf, val.Bool())
	case reflect.String:
		return e.packText(buf, val.String())
	}

	// Composite/object dispatch: walk the type-pack registry before any
	// generic fallback. This must run ahead of both the pointer-deref case
	// below (registered pointer types like *regexp.Regexp have Kind Ptr and
	// would otherwise never reach their matcher) and the plain numeric-kind
	// dispatch (registered numeric-underlying types like Simple have Kind
	// Uint8 and would otherwise be swallowed as a bare integer).
	for _, entry := range e.registry {
		if entry.enc.Match(v) {
			return entry.enc.Encode(e, buf, v)
		}
	}

	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		if val.IsNil() {
			buf.WriteByte(prefixUndef)
			return nil
		}
		return e.pack(val.Elem().Interface(), buf)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.packNumber(buf, float64(val.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.packUnsignedNumber(buf, val.Uint())
	case reflect.Float32, reflect.Float64:
		return e.packNumber(buf, val.Float())
	case reflect.Struct:
		return e.packStruct(buf, val)
	case reflect.Map:
		return e.packGoMap(buf, val)
	}

	return errs.WithType("unknown type")
}

// packNumber implements the "number" branch of the dispatch algorithm: a
// finite value equal to its own integer truncation is framed as an integer
// (possibly negative); otherwise (non-finite, or fractional) it is framed
// as a float64. NaN routes to float encoding by definition, since NaN is
// never equal to its truncation.
func (e *Encoder) packNumber(buf *bytebuf.Buffer, f float64) error {
	// Values too large to convert to int64 safely are floats by
	// construction; anything smaller still goes through the integer
	// framing table below, which is what actually enforces the 2^31 bound
	// (and fails with Range rather than silently falling back to float).
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= (1<<63) {
		buf.WriteByte(prefixFloat64)
		buf.WriteFloat64(f)
		return nil
	}
	i := int64(f)
	if i >= 0 {
		return packInt(buf, uint64(i), mtUnsigned)
	}
	return packInt(buf, uint64(-(i+1)), mtNegative)
}

func (e *Encoder) packUnsignedNumber(buf *bytebuf.Buffer, u uint64) error {
	if u > maxInt31 {
		return errs.WithRange("integer out of range")
	}
	return packInt(buf, u, mtUnsigned)
}

func (e *Encoder) packBool(buf *bytebuf.Buffer, b bool) error {
	if b {
		buf.WriteByte(prefixTrue)
	} else {
		buf.WriteByte(prefixFalse)
	}
	return nil
}

func (e *Encoder) packText(buf *bytebuf.Buffer, s string) error {
	if err := packInt(buf, uint64(len(s)), mtText); err != nil {
		return err
	}
	buf.Append([]byte(s))
	return nil
}

func (e *Encoder) packStruct(buf *bytebuf.Buffer, val reflect.Value) error {
	typ := val.Type()
	var fields []reflect.StructField
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		fields = append(fields, f)
	}
	if err := packInt(buf, uint64(len(fields)), mtMap); err != nil {
		return err
	}
	for _, f := range fields {
		if err := e.packText(buf, f.Name); err != nil {
			return err
		}
		if err := e.pack(val.FieldByIndex(f.Index).Interface(), buf); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) packGoMap(buf *bytebuf.Buffer, val reflect.Value) error {
	keys := val.MapKeys()
	if err := packInt(buf, uint64(len(keys)), mtMap); err != nil {
		return err
	}
	for _, k := range keys {
		if err := e.pack(k.Interface(), buf); err != nil {
			return err
		}
		if err := e.pack(val.MapIndex(k).Interface(), buf); err != nil {
			return err
		}
	}
	return nil
}

// packInt implements the integer framing table shared by every major type
// that carries a length or numeric operand.
func packInt(buf *bytebuf.Buffer, i uint64, mt byte) error {
	switch {
	case i <= aiMax1:
		return buf.WriteByte(mt<<5 | byte(i))
	case i <= 0xff:
		if err := buf.WriteByte(mt<<5 | aiUint8); err != nil {
			return err
		}
		return buf.WriteByte(byte(i))
	case i <= 0xffff:
		if err := buf.WriteByte(mt<<5 | aiUint16); err != nil {
			return err
		}
		buf.WriteUint16(uint16(i))
		return nil
	case i <= maxInt31:
		if err := buf.WriteByte(mt<<5 | aiUint32); err != nil {
			return err
		}
		buf.WriteUint32(uint32(i))
		return nil
	default:
		return errs.WithRange("integer out of range")
	}
}
