package cbor

import "github.com/creachadair/cbor/bytebuf"

// TypeEncoder matches a runtime value and encodes it into buf when it does.
// Match is consulted in registration order by the Encoder's dispatch; the
// first entry whose Match reports true handles the value.
type TypeEncoder struct {
	Match  func(v any) bool
	Encode func(e *Encoder, buf *bytebuf.Buffer, v any) error
}

type typeRegistryEntry struct {
	name string
	enc  TypeEncoder
}

// AddSemanticType registers or replaces the type encoder known by name. If
// an encoder was already registered under name, it is returned along with
// true; otherwise the zero TypeEncoder and false are returned. A new
// registration is appended after all existing ones, so it is consulted
// last; replacing an existing name keeps its original position in dispatch
// order.
func (e *Encoder) AddSemanticType(name string, enc TypeEncoder) (TypeEncoder, bool) {
	for i, entry := range e.registry {
		if entry.name == name {
			prev := entry.enc
			e.registry[i].enc = enc
			return prev, true
		}
	}
	e.registry = append(e.registry, typeRegistryEntry{name: name, enc: enc})
	return TypeEncoder{}, false
}

// TagDecoder transforms the inner Item of a tagged item into a richer host
// value, itself represented as an Item (typically a variant that did not
// come directly off the wire, such as Text holding a formatted value, or a
// decoder-specific wrapper).
type TagDecoder func(inner Item) (Item, error)

type tagRegistryEntry struct {
	tag uint64
	dec TagDecoder
}

// AddSemanticTag registers or replaces the tag decoder for tag. If a
// decoder was already registered for tag, it is returned along with true.
func (d *Decoder) AddSemanticTag(tag uint64, dec TagDecoder) (TagDecoder, bool) {
	for i, entry := range d.tagRegistry {
		if entry.tag == tag {
			prev := entry.dec
			d.tagRegistry[i].dec = dec
			return prev, true
		}
	}
	d.tagRegistry = append(d.tagRegistry, tagRegistryEntry{tag: tag, dec: dec})
	return nil, false
}

func (d *Decoder) lookupTag(tag uint64) (TagDecoder, bool) {
	for _, entry := range d.tagRegistry {
		if entry.tag == tag {
			return entry.dec, true
		}
	}
	return nil, false
}
