package tangle

// CommentStyle describes a language's comment syntax. Annotation marker
// lines use Prefix only and are never closed, even for block-comment
// languages — see (*expander).beginMarker. Suffix is empty for
// line-comment languages; it carries the closing delimiter for
// languages whose only comment form is a block comment (e.g. "-->" for
// HTML, "*)" for OCaml-family languages), and is consulted by
// applySPDXHook to skip those languages rather than emit an unclosed
// comment around an SPDX line.
type CommentStyle struct {
	Prefix string
	Suffix string
}

// builtinComments is the ~50-entry language -> comment-syntax table
// spec.md §4.4 calls for. Users may override or extend it via the
// overrides map passed to CommentFor.
var builtinComments = map[string]CommentStyle{
	// C-family line comments
	"c":          {Prefix: "//"},
	"cpp":        {Prefix: "//"},
	"c++":        {Prefix: "//"},
	"csharp":     {Prefix: "//"},
	"c#":         {Prefix: "//"},
	"java":       {Prefix: "//"},
	"kotlin":     {Prefix: "//"},
	"scala":      {Prefix: "//"},
	"go":         {Prefix: "//"},
	"golang":     {Prefix: "//"},
	"rust":       {Prefix: "//"},
	"swift":      {Prefix: "//"},
	"dart":       {Prefix: "//"},
	"javascript": {Prefix: "//"},
	"js":         {Prefix: "//"},
	"typescript": {Prefix: "//"},
	"ts":         {Prefix: "//"},
	"jsx":        {Prefix: "//"},
	"tsx":        {Prefix: "//"},
	"php":        {Prefix: "//"},
	"d":          {Prefix: "//"},
	"zig":        {Prefix: "//"},
	"groovy":     {Prefix: "//"},
	"protobuf":   {Prefix: "//"},
	"proto":      {Prefix: "//"},

	// Shell / hash-comment family
	"python":     {Prefix: "#"},
	"py":         {Prefix: "#"},
	"ruby":       {Prefix: "#"},
	"perl":       {Prefix: "#"},
	"shell":      {Prefix: "#"},
	"bash":       {Prefix: "#"},
	"sh":         {Prefix: "#"},
	"zsh":        {Prefix: "#"},
	"fish":       {Prefix: "#"},
	"powershell": {Prefix: "#"},
	"ps1":        {Prefix: "#"},
	"yaml":       {Prefix: "#"},
	"yml":        {Prefix: "#"},
	"toml":       {Prefix: "#"},
	"dockerfile": {Prefix: "#"},
	"makefile":   {Prefix: "#"},
	"make":       {Prefix: "#"},
	"cmake":      {Prefix: "#"},
	"nim":        {Prefix: "#"},
	"r":          {Prefix: "#"},
	"elixir":     {Prefix: "#"},
	"ex":         {Prefix: "#"},
	"julia":      {Prefix: "#"},
	"awk":        {Prefix: "#"},
	"tcl":        {Prefix: "#"},
	"ini":        {Prefix: ";"},

	// SQL / Lisp / Haskell family
	"sql":     {Prefix: "--"},
	"haskell": {Prefix: "--"},
	"hs":      {Prefix: "--"},
	"lua":     {Prefix: "--"},
	"elm":     {Prefix: "--"},
	"ada":     {Prefix: "--"},
	"vhdl":    {Prefix: "--"},

	"lisp":    {Prefix: ";;"},
	"clojure": {Prefix: ";;"},
	"clj":     {Prefix: ";;"},
	"scheme":  {Prefix: ";;"},
	"racket":  {Prefix: ";;"},

	// Block-comment-only languages
	"html":   {Prefix: "<!--", Suffix: "-->"},
	"xml":    {Prefix: "<!--", Suffix: "-->"},
	"svg":    {Prefix: "<!--", Suffix: "-->"},
	"markdown": {Prefix: "<!--", Suffix: "-->"},
	"md":       {Prefix: "<!--", Suffix: "-->"},
	"css":    {Prefix: "/*", Suffix: "*/"},
	"scss":   {Prefix: "/*", Suffix: "*/"},
	"less":   {Prefix: "/*", Suffix: "*/"},
	"ocaml":  {Prefix: "(*", Suffix: "*)"},
	"ml":     {Prefix: "(*", Suffix: "*)"},
	"fsharp": {Prefix: "(*", Suffix: "*)"},
	"fs":     {Prefix: "(*", Suffix: "*)"},
	"pascal": {Prefix: "(*", Suffix: "*)"},
}

// CommentFor resolves the comment style for language, consulting
// overrides first, then the built-in table, and falling back to "#"
// (spec.md §4.6) when the language is unknown or empty.
func CommentFor(language string, overrides map[string]string) CommentStyle {
	if overrides != nil {
		if prefix, ok := overrides[language]; ok {
			return CommentStyle{Prefix: prefix}
		}
	}
	if cs, ok := builtinComments[language]; ok {
		return cs
	}
	return CommentStyle{Prefix: "#"}
}
