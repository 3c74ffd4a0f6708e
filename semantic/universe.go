package semantic

// The universe is the built-in symbol set every context starts from. It
// stands in for referenced assemblies: the well-known System types the
// rewrite semantics observe, with just enough members for receiver typing
// and counterpart matching to work against them.

// keywordAliases maps C# type keywords to their universe type names.
var keywordAliases = map[string]string{
	"object":  "System.Object",
	"string":  "System.String",
	"bool":    "System.Boolean",
	"byte":    "System.Byte",
	"sbyte":   "System.SByte",
	"short":   "System.Int16",
	"ushort":  "System.UInt16",
	"int":     "System.Int32",
	"uint":    "System.UInt32",
	"long":    "System.Int64",
	"ulong":   "System.UInt64",
	"float":   "System.Single",
	"double":  "System.Double",
	"decimal": "System.Decimal",
	"char":    "System.Char",
	"void":    "System.Void",
}

func builtinType(ns, name string, kind TypeKind) *TypeSymbol {
	return &TypeSymbol{
		Name:      name,
		Namespace: ns,
		Kind:      kind,
		Builtin:   true,
		Fields:    map[string]TypeRef{},
	}
}

func addMethod(t *TypeSymbol, name string, ret TypeRef, mods []string, params ...Parameter) *MethodSymbol {
	m := &MethodSymbol{
		Name:       name,
		Parameters: params,
		ReturnType: ret,
		Modifiers:  mods,
		Container:  t,
	}
	t.Methods = append(t.Methods, m)
	return m
}

func param(typeText, name string, sym *TypeSymbol) Parameter {
	return Parameter{
		Name: name,
		Type: TypeRef{Text: typeText, Symbol: sym},
		Text: typeText + " " + name,
	}
}

// universe builds the built-in symbol set. Returned types carry resolved
// cross-references, so the caller only needs to register them.
func universe() []*TypeSymbol {
	object := builtinType("System", "Object", KindClass)
	str := builtinType("System", "String", KindClass)
	boolean := builtinType("System", "Boolean", KindStruct)
	int32t := builtinType("System", "Int32", KindStruct)

	simpleValueTypes := []string{
		"Byte", "SByte", "Int16", "UInt16", "UInt32", "Int64", "UInt64",
		"Single", "Double", "Decimal", "Char", "Void",
	}

	strRef := TypeRef{Text: "string", Symbol: str}
	boolRef := TypeRef{Text: "bool", Symbol: boolean}
	intRef := TypeRef{Text: "int", Symbol: int32t}
	voidRef := TypeRef{Text: "void"}

	addMethod(object, "ToString", strRef, []string{"public", "virtual"})
	addMethod(object, "Equals", boolRef, []string{"public", "virtual"}, param("object", "obj", object))
	addMethod(object, "GetHashCode", intRef, []string{"public", "virtual"})

	str.BaseRefs = []TypeRef{{Text: "Object", Symbol: object}}

	token := builtinType("System.Threading", "CancellationToken", KindStruct)
	addMethod(token, "ThrowIfCancellationRequested", voidRef, []string{"public"})

	task := builtinType("System.Threading.Tasks", "Task", KindClass)
	taskOf := builtinType("System.Threading.Tasks", "Task", KindClass)
	taskOf.TypeParams = "<TResult>"
	taskOf.Arity = 1
	taskRef := TypeRef{Text: "Task", Symbol: task}

	stream := builtinType("System.IO", "Stream", KindClass)
	stream.BaseRefs = []TypeRef{{Text: "Object", Symbol: object}}
	byteArr := func(name string) Parameter { return param("byte[]", name, nil) }
	addMethod(stream, "Write", voidRef, []string{"public", "virtual"},
		byteArr("buffer"), param("int", "offset", int32t), param("int", "count", int32t))
	addMethod(stream, "WriteAsync", taskRef, []string{"public", "virtual"},
		byteArr("buffer"), param("int", "offset", int32t), param("int", "count", int32t),
		param("CancellationToken", "cancellationToken", token))
	addMethod(stream, "Read", intRef, []string{"public", "virtual"},
		byteArr("buffer"), param("int", "offset", int32t), param("int", "count", int32t))
	addMethod(stream, "ReadAsync", TypeRef{Text: "Task<int>"}, []string{"public", "virtual"},
		byteArr("buffer"), param("int", "offset", int32t), param("int", "count", int32t),
		param("CancellationToken", "cancellationToken", token))
	addMethod(stream, "Flush", voidRef, []string{"public", "virtual"})
	addMethod(stream, "FlushAsync", taskRef, []string{"public", "virtual"},
		param("CancellationToken", "cancellationToken", token))

	// MemoryStream overrides the Stream members the way the real library
	// does; calls on a MemoryStream receiver must resolve to MemoryStream
	// itself for the builtin exclusion to be observable.
	memoryStream := builtinType("System.IO", "MemoryStream", KindClass)
	memoryStream.BaseRefs = []TypeRef{{Text: "Stream", Symbol: stream}}
	addMethod(memoryStream, "Write", voidRef, []string{"public", "override"},
		byteArr("buffer"), param("int", "offset", int32t), param("int", "count", int32t))
	addMethod(memoryStream, "WriteAsync", taskRef, []string{"public", "override"},
		byteArr("buffer"), param("int", "offset", int32t), param("int", "count", int32t),
		param("CancellationToken", "cancellationToken", token))
	addMethod(memoryStream, "Read", intRef, []string{"public", "override"},
		byteArr("buffer"), param("int", "offset", int32t), param("int", "count", int32t))
	addMethod(memoryStream, "ReadAsync", TypeRef{Text: "Task<int>"}, []string{"public", "override"},
		byteArr("buffer"), param("int", "offset", int32t), param("int", "count", int32t),
		param("CancellationToken", "cancellationToken", token))
	addMethod(memoryStream, "Flush", voidRef, []string{"public", "override"})
	addMethod(memoryStream, "FlushAsync", taskRef, []string{"public", "override"},
		param("CancellationToken", "cancellationToken", token))
	addMethod(memoryStream, "ToArray", TypeRef{Text: "byte[]"}, []string{"public"})

	textWriter := builtinType("System.IO", "TextWriter", KindClass)
	textWriter.BaseRefs = []TypeRef{{Text: "Object", Symbol: object}}
	addMethod(textWriter, "Write", voidRef, []string{"public", "virtual"}, param("string", "value", str))
	addMethod(textWriter, "WriteAsync", taskRef, []string{"public", "virtual"}, param("string", "value", str))
	addMethod(textWriter, "WriteLine", voidRef, []string{"public", "virtual"}, param("string", "value", str))
	addMethod(textWriter, "WriteLineAsync", taskRef, []string{"public", "virtual"}, param("string", "value", str))
	addMethod(textWriter, "Flush", voidRef, []string{"public", "virtual"})
	addMethod(textWriter, "FlushAsync", taskRef, []string{"public", "virtual"})

	stringWriter := builtinType("System.IO", "StringWriter", KindClass)
	stringWriter.BaseRefs = []TypeRef{{Text: "TextWriter", Symbol: textWriter}}
	addMethod(stringWriter, "Write", voidRef, []string{"public", "override"}, param("string", "value", str))
	addMethod(stringWriter, "WriteAsync", taskRef, []string{"public", "override"}, param("string", "value", str))
	addMethod(stringWriter, "WriteLine", voidRef, []string{"public", "override"}, param("string", "value", str))
	addMethod(stringWriter, "WriteLineAsync", taskRef, []string{"public", "override"}, param("string", "value", str))
	addMethod(stringWriter, "Flush", voidRef, []string{"public", "override"})
	addMethod(stringWriter, "FlushAsync", taskRef, []string{"public", "override"})
	addMethod(stringWriter, "GetStringBuilder", TypeRef{Text: "StringBuilder"}, []string{"public"})

	types := []*TypeSymbol{
		object, str, boolean, int32t,
		token, task, taskOf,
		stream, memoryStream, textWriter, stringWriter,
	}
	for _, name := range simpleValueTypes {
		types = append(types, builtinType("System", name, KindStruct))
	}

	return types
}
