package column

// ObjectIDSize is the fixed width of an ObjectId column cell (§4.1 ObjectId:
// "Fixed 4-byte columns").
const ObjectIDSize = 4

// DefaultGraphID is the reserved object ID for the default graph (§4.2).
const DefaultGraphID uint32 = 0

// ObjectIdArray is a column of 4-byte object IDs. A null row is tracked
// separately from ID 0, which is a real (reserved) value, not an absence.
type ObjectIdArray struct {
	ids   []uint32
	nulls []bool
}

func NewObjectIdArray(ids []uint32, nulls []bool) *ObjectIdArray {
	return &ObjectIdArray{ids: ids, nulls: nulls}
}

func (a *ObjectIdArray) Len() int { return len(a.ids) }

func (a *ObjectIdArray) IsNull(i int) bool { return a.nulls != nil && a.nulls[i] }

func (a *ObjectIdArray) Get(i int) uint32 { return a.ids[i] }

func (a *ObjectIdArray) IDs() []uint32 { return a.ids }

// ObjectIdBuilder accumulates object IDs (typically produced by an
// IDEncoder, not built term-by-term, since encoding requires interning).
type ObjectIdBuilder struct {
	ids   []uint32
	nulls []bool
}

func NewObjectIdBuilder() *ObjectIdBuilder { return &ObjectIdBuilder{} }

func (b *ObjectIdBuilder) AppendID(id uint32) {
	b.ids = append(b.ids, id)
	b.nulls = append(b.nulls, false)
}

func (b *ObjectIdBuilder) AppendNull() {
	b.ids = append(b.ids, 0)
	b.nulls = append(b.nulls, true)
}

func (b *ObjectIdBuilder) Len() int { return len(b.ids) }

func (b *ObjectIdBuilder) Build() *ObjectIdArray {
	return &ObjectIdArray{ids: b.ids, nulls: b.nulls}
}

// IDEncoder is implemented by an object-ID mapping (pkg/objectid.Mapping):
// encode_array interns missing terms and allocates new IDs (§4.2).
type IDEncoder interface {
	EncodeArray(*PlainTermArray) (*ObjectIdArray, error)
}

// IDDecoder is implemented by an object-ID mapping: every ID in the input
// array must already be known (§4.2 "an unknown ID is a programmer error").
type IDDecoder interface {
	DecodeArray(*ObjectIdArray) (*PlainTermArray, error)
	DecodeArrayToTypedValue(*ObjectIdArray) (*TypedValueArray, error)
}
