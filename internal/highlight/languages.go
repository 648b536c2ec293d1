package highlight

// CLike covers C, C++, Go, Java, JavaScript and similar brace languages.
var CLike = NewLexer("c",
	WithLineComments("//"),
	WithBlockComment("/*", "*/"),
	WithQuotes("\"'`"),
	WithPreprocessor(),
	WithKeywords(Keyword,
		"break", "case", "catch", "class", "const", "continue", "default", "defer",
		"do", "else", "enum", "extern", "for", "func", "go", "goto", "if", "import",
		"interface", "map", "namespace", "new", "package", "private", "public",
		"range", "return", "select", "sizeof", "static", "struct", "switch",
		"template", "this", "throw", "try", "typedef", "union", "var", "while",
		"true", "false", "nil", "null", "NULL"),
	WithKeywords(Type,
		"bool", "byte", "char", "double", "error", "float", "float32", "float64",
		"int", "int8", "int16", "int32", "int64", "long", "rune", "short",
		"signed", "string", "uint", "uint8", "uint16", "uint32", "uint64",
		"unsigned", "void", "any"),
)

// SQL highlights SQL with case-insensitive keywords.
var SQL = NewLexer("sql",
	WithFoldCase(),
	WithLineComments("--"),
	WithBlockComment("/*", "*/"),
	WithQuotes(`'"`),
	WithKeywords(Keyword,
		"add", "all", "alter", "and", "as", "asc", "begin", "between", "by",
		"case", "commit", "create", "delete", "desc", "distinct", "drop", "else",
		"end", "exists", "from", "group", "having", "in", "index", "inner",
		"insert", "into", "is", "join", "key", "left", "like", "limit", "not",
		"null", "offset", "on", "or", "order", "outer", "primary", "references",
		"right", "rollback", "select", "set", "table", "then", "union", "unique",
		"update", "values", "view", "when", "where", "with"),
	WithKeywords(Type,
		"bigint", "blob", "boolean", "char", "date", "decimal", "float",
		"integer", "int", "numeric", "real", "text", "timestamp", "varchar"),
)

// Lua highlights Lua, including long comments.
var Lua = NewLexer("lua",
	WithBlockComment("--[[", "]]"),
	WithLineComments("--"),
	WithQuotes(`"'`),
	WithKeywords(Keyword,
		"and", "break", "do", "else", "elseif", "end", "false", "for",
		"function", "goto", "if", "in", "local", "nil", "not", "or", "repeat",
		"return", "then", "true", "until", "while"),
	WithKeywords(Type, "self"),
)
