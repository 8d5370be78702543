package aidl

type builtin struct {
	pkg, name          string
	parcel, array, out bool
}

// The built-in table. Capabilities are per name: primitives marshal and form
// arrays but are in-only, the collection types are out-capable but cannot be
// arrays, and the framework plumbing types cannot be marshalled at all.
var builtinTable = []builtin{
	{name: "void", parcel: true},
	{name: "boolean", parcel: true, array: true},
	{name: "byte", parcel: true, array: true},
	{name: "char", parcel: true, array: true},
	{name: "int", parcel: true, array: true},
	{name: "long", parcel: true, array: true},
	{name: "float", parcel: true, array: true},
	{name: "double", parcel: true, array: true},
	{pkg: "java.lang", name: "String", parcel: true, array: true},
	{pkg: "java.lang", name: "CharSequence", parcel: true},
	{pkg: "java.lang", name: "Object"},
	{pkg: "java.lang", name: "RuntimeException"},
	{pkg: "java.lang", name: "ClassLoader"},
	{pkg: "java.util", name: "List", parcel: true, out: true},
	{pkg: "java.util", name: "Map", parcel: true, out: true},
	{pkg: "android.os", name: "IBinder", parcel: true, array: true},
	{pkg: "android.os", name: "IInterface"},
	{pkg: "android.os", name: "Binder"},
	{pkg: "android.os", name: "Parcel"},
	{pkg: "android.os", name: "Parcelable"},
	{pkg: "android.os", name: "ParcelFileDescriptor", parcel: true, array: true, out: true},
	{pkg: "android.os", name: "RemoteException"},
}

func builtinTypes() []*Type {
	out := make([]*Type, 0, len(builtinTable))
	for _, b := range builtinTable {
		out = append(out, &Type{
			Package:           b.pkg,
			Name:              b.name,
			Kind:              KindBuiltIn,
			canWriteToParcel:  b.parcel,
			canBeArray:        b.array,
			canBeOutParameter: b.out,
		})
	}
	return out
}

// javaKeywords are the names an argument may not take, because generated
// stub and proxy code uses them verbatim as identifiers.
var javaKeywords = makeSet(
	"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
	"class", "const", "continue", "default", "do", "double", "else", "enum",
	"extends", "final", "finally", "float", "for", "goto", "if", "implements",
	"import", "instanceof", "int", "interface", "long", "native", "new",
	"package", "private", "protected", "public", "return", "short", "static",
	"strictfp", "super", "switch", "synchronized", "this", "throw", "throws",
	"transient", "try", "void", "volatile", "while", "true", "false", "null",
)

func isJavaKeyword(name string) bool {
	return javaKeywords.has(name)
}
