package ogex

// propKind is the expected value type of a structure property.
type propKind int

const (
	propBool   propKind = iota // Boolean property
	propInt                    // Integer property
	propFloat                  // Floating-point property (integer literals accepted)
	propString                 // String property
	propRef                    // Reference property
)

// nameMode says which name scopes a structure kind may carry.
type nameMode int

const (
	nameNone nameMode = iota // No name allowed
	nameAny                  // Local or global name allowed
)

// childSpec bounds how many children of one kind a parent may hold.
// max < 0 means unbounded.
type childSpec struct {
	min, max int
}

// dataSpec describes the primitive data a data-holding kind accepts:
// the legal element types, the legal subarray arities (0 = flat form),
// and bounds on the subarray count (flat element count). max 0 means
// unbounded.
type dataSpec struct {
	types map[DataType]bool
	subs  []int
	min   int
	max   int
}

// kindSpec is one metaschema entry: legal properties with expected value
// kinds, required properties, legal children with cardinality, data
// shape for data-holding kinds, name legality, and top-level legality.
type kindSpec struct {
	props    map[string]propKind
	required []string
	children map[string]childSpec
	data     *dataSpec
	name     nameMode
	topLevel bool
	anyChild bool // children are application-defined (Extension)
	anyData  bool // data of any type is accepted (Extension)
}

var (
	intTypes = map[DataType]bool{
		TypeInt8: true, TypeInt16: true, TypeInt32: true, TypeInt64: true,
		TypeUint8: true, TypeUint16: true, TypeUint32: true, TypeUint64: true,
	}
	uintTypes = map[DataType]bool{
		TypeUint8: true, TypeUint16: true, TypeUint32: true, TypeUint64: true,
	}
	floatTypes = map[DataType]bool{
		TypeHalf: true, TypeFloat: true, TypeDouble: true,
	}
	numericTypes = map[DataType]bool{
		TypeInt8: true, TypeInt16: true, TypeInt32: true, TypeInt64: true,
		TypeUint8: true, TypeUint16: true, TypeUint32: true, TypeUint64: true,
		TypeHalf: true, TypeFloat: true, TypeDouble: true,
	}
	refTypes    = map[DataType]bool{TypeRef: true}
	stringTypes = map[DataType]bool{TypeString: true}
	metricTypes = map[DataType]bool{TypeFloat: true, TypeString: true}
)

// nodeChildren is the child set shared by every node kind.
func nodeChildren(extra map[string]childSpec) map[string]childSpec {
	out := map[string]childSpec{
		"Name":         {0, 1},
		"Transform":    {0, -1},
		"Translation":  {0, -1},
		"Rotation":     {0, -1},
		"Scale":        {0, -1},
		"Animation":    {0, -1},
		"Node":         {0, -1},
		"BoneNode":     {0, -1},
		"GeometryNode": {0, -1},
		"CameraNode":   {0, -1},
		"LightNode":    {0, -1},
		"Extension":    {0, -1},
	}
	for k, v := range extra {
		out[k] = v
	}

	return out
}

// structureKinds is the OpenGEX metaschema: one entry per structure kind.
var structureKinds = map[string]kindSpec{
	"Metric": {
		topLevel: true,
		props:    map[string]propKind{"key": propString},
		required: []string{"key"},
		data:     &dataSpec{types: metricTypes, subs: []int{0}, min: 1, max: 1},
	},
	"Name": {
		data: &dataSpec{types: stringTypes, subs: []int{0}, min: 1, max: 1},
	},
	"ObjectRef": {
		data: &dataSpec{types: refTypes, subs: []int{0}, min: 1, max: 1},
	},
	"MaterialRef": {
		props: map[string]propKind{"index": propInt},
		data:  &dataSpec{types: refTypes, subs: []int{0}, min: 1, max: 1},
	},
	"Morph": {
		props:    map[string]propKind{"index": propInt, "base": propInt},
		children: map[string]childSpec{"Name": {0, 1}, "Extension": {0, -1}},
	},
	"Transform": {
		name:  nameAny,
		props: map[string]propKind{"object": propBool},
		data:  &dataSpec{types: floatTypes, subs: []int{16}, min: 1},
	},
	"Translation": {
		name:  nameAny,
		props: map[string]propKind{"kind": propString, "object": propBool},
		data:  &dataSpec{types: floatTypes, subs: []int{0, 3}, min: 1, max: 1},
	},
	"Rotation": {
		name:  nameAny,
		props: map[string]propKind{"kind": propString, "object": propBool},
		data:  &dataSpec{types: floatTypes, subs: []int{0, 4}, min: 1, max: 1},
	},
	"Scale": {
		name:  nameAny,
		props: map[string]propKind{"kind": propString, "object": propBool},
		data:  &dataSpec{types: floatTypes, subs: []int{0, 3}, min: 1, max: 1},
	},
	"MorphWeight": {
		name:  nameAny,
		props: map[string]propKind{"index": propInt},
		data:  &dataSpec{types: floatTypes, subs: []int{0}, min: 1, max: 1},
	},
	"Node": {
		topLevel: true,
		name:     nameAny,
		children: nodeChildren(nil),
	},
	"BoneNode": {
		topLevel: true,
		name:     nameAny,
		children: nodeChildren(nil),
	},
	"GeometryNode": {
		topLevel: true,
		name:     nameAny,
		props: map[string]propKind{
			"visible": propBool, "shadow": propBool, "motion_blur": propBool,
		},
		children: nodeChildren(map[string]childSpec{
			"ObjectRef":   {1, 1},
			"MaterialRef": {0, -1},
			"MorphWeight": {0, -1},
		}),
	},
	"CameraNode": {
		topLevel: true,
		name:     nameAny,
		children: nodeChildren(map[string]childSpec{"ObjectRef": {1, 1}}),
	},
	"LightNode": {
		topLevel: true,
		name:     nameAny,
		props:    map[string]propKind{"shadow": propBool},
		children: nodeChildren(map[string]childSpec{"ObjectRef": {1, 1}}),
	},
	"VertexArray": {
		props:    map[string]propKind{"attrib": propString, "morph": propInt},
		required: []string{"attrib"},
		data:     &dataSpec{types: numericTypes, subs: []int{0, 1, 2, 3, 4, 16}},
	},
	"IndexArray": {
		props: map[string]propKind{
			"material": propInt, "restart": propInt, "front": propString,
		},
		data: &dataSpec{types: uintTypes, subs: []int{0, 1, 2, 3, 4}},
	},
	"BoneRefArray": {
		data: &dataSpec{types: refTypes, subs: []int{0}, min: 1},
	},
	"BoneCountArray": {
		data: &dataSpec{types: uintTypes, subs: []int{0}, min: 1},
	},
	"BoneIndexArray": {
		data: &dataSpec{types: uintTypes, subs: []int{0}, min: 1},
	},
	"BoneWeightArray": {
		data: &dataSpec{types: floatTypes, subs: []int{0}, min: 1},
	},
	"Skeleton": {
		children: map[string]childSpec{
			"Transform":    {1, 1},
			"BoneRefArray": {1, 1},
			"Extension":    {0, -1},
		},
	},
	"Skin": {
		children: map[string]childSpec{
			"Transform":       {0, 1},
			"Skeleton":        {1, 1},
			"BoneCountArray":  {1, 1},
			"BoneIndexArray":  {1, 1},
			"BoneWeightArray": {1, 1},
			"Extension":       {0, -1},
		},
	},
	"Mesh": {
		props: map[string]propKind{"lod": propInt, "primitive": propString},
		children: map[string]childSpec{
			"VertexArray": {1, -1},
			"IndexArray":  {0, -1},
			"Skin":        {0, 1},
			"Extension":   {0, -1},
		},
	},
	"GeometryObject": {
		topLevel: true,
		name:     nameAny,
		props: map[string]propKind{
			"visible": propBool, "shadow": propBool, "motion_blur": propBool,
		},
		children: map[string]childSpec{
			"Mesh":      {1, -1},
			"Morph":     {0, -1},
			"Extension": {0, -1},
		},
	},
	"CameraObject": {
		topLevel: true,
		name:     nameAny,
		children: map[string]childSpec{"Param": {0, -1}, "Extension": {0, -1}},
	},
	"LightObject": {
		topLevel: true,
		name:     nameAny,
		props:    map[string]propKind{"type": propString, "shadow": propBool},
		required: []string{"type"},
		children: map[string]childSpec{
			"Color":     {0, -1},
			"Param":     {0, -1},
			"Texture":   {0, -1},
			"Atten":     {0, -1},
			"Extension": {0, -1},
		},
	},
	"Atten": {
		props:    map[string]propKind{"kind": propString, "curve": propString},
		children: map[string]childSpec{"Param": {0, -1}, "Extension": {0, -1}},
	},
	"Material": {
		topLevel: true,
		name:     nameAny,
		props:    map[string]propKind{"two_sided": propBool},
		children: map[string]childSpec{
			"Name":      {0, 1},
			"Color":     {0, -1},
			"Param":     {0, -1},
			"Texture":   {0, -1},
			"Extension": {0, -1},
		},
	},
	"Color": {
		props:    map[string]propKind{"attrib": propString},
		required: []string{"attrib"},
		data:     &dataSpec{types: floatTypes, subs: []int{0, 3, 4}, min: 1, max: 4},
	},
	"Param": {
		props:    map[string]propKind{"attrib": propString},
		required: []string{"attrib"},
		data:     &dataSpec{types: floatTypes, subs: []int{0}, min: 1, max: 1},
	},
	"Texture": {
		props:    map[string]propKind{"attrib": propString, "texcoord": propInt},
		required: []string{"attrib"},
		data:     &dataSpec{types: stringTypes, subs: []int{0}, min: 1, max: 1},
	},
	"Animation": {
		props: map[string]propKind{
			"clip": propInt, "begin": propFloat, "end": propFloat,
		},
		children: map[string]childSpec{"Track": {1, -1}, "Extension": {0, -1}},
	},
	"Track": {
		props:    map[string]propKind{"target": propRef},
		required: []string{"target"},
		children: map[string]childSpec{
			"Time":      {1, 1},
			"Value":     {1, 1},
			"Extension": {0, -1},
		},
	},
	"Time": {
		props:    map[string]propKind{"curve": propString},
		children: map[string]childSpec{"Key": {1, 3}, "Extension": {0, -1}},
	},
	"Value": {
		props:    map[string]propKind{"curve": propString},
		children: map[string]childSpec{"Key": {1, 4}, "Extension": {0, -1}},
	},
	"Key": {
		props: map[string]propKind{"kind": propString},
		data:  &dataSpec{types: floatTypes, subs: []int{0, 1, 2, 3, 4, 16}, min: 1},
	},
	"Clip": {
		topLevel: true,
		name:     nameAny,
		props:    map[string]propKind{"index": propInt},
		children: map[string]childSpec{
			"Name":      {0, 1},
			"Param":     {0, -1},
			"Extension": {0, -1},
		},
	},
	"Extension": {
		topLevel: true,
		props:    map[string]propKind{"applic": propString, "type": propString},
		required: []string{"type"},
		anyChild: true,
		anyData:  true,
	},
}
