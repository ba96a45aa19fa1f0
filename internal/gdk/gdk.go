// Package gdk supplies the completion provider's extension-method and
// Jenkins-global data sources (spec.md §4.6.1 step 5, SPEC_FULL.md §3).
// The real Groovy Development Kit adds dozens of extension methods to
// nearly every JDK type; this package does not attempt to catalog all of
// them — it is a narrow interface plus a representative in-memory seed,
// enough to make completion's member-access scenario (spec.md §8 S2)
// concrete without pretending to be exhaustive.
package gdk

// Method describes one GDK extension method available on a receiver type.
type Method struct {
	Name      string
	Signature string
	Doc       string
}

// MethodCatalog answers "what extension methods does GDK add to this
// type?" Implementations may be backed by a static seed (DefaultCatalog)
// or, in principle, a generated table — the completion provider only
// depends on this interface.
type MethodCatalog interface {
	MethodsFor(receiverType string) []Method
}

// JenkinsVariable describes one Jenkins pipeline global (e.g. `env`,
// `params`, `currentBuild`) available in Jenkinsfile-classified documents
// (workspace/ decides classification; gdk only describes the symbols).
type JenkinsVariable struct {
	Name string
	Type string
	Doc  string
}

// JenkinsCatalog answers "what pipeline globals are implicitly in scope?"
type JenkinsCatalog interface {
	GlobalVariables() []JenkinsVariable
}

// staticMethodCatalog is an in-memory MethodCatalog seeded with a
// representative subset of GDK additions to Object, Collection, Map, and
// String — the types completion's worked examples touch.
type staticMethodCatalog struct {
	byType map[string][]Method
}

// DefaultCatalog returns the seed MethodCatalog.
func DefaultCatalog() MethodCatalog {
	return &staticMethodCatalog{byType: map[string][]Method{
		"Object": {
			{Name: "with", Signature: "with(Closure c)", Doc: "Evaluates the closure with `this` as delegate."},
			{Name: "tap", Signature: "tap(Closure c)", Doc: "Like with(), but always returns the receiver."},
			{Name: "dump", Signature: "dump()", Doc: "Returns a String with a lot of detail about this object."},
			{Name: "asType", Signature: "asType(Class c)", Doc: "Coerces this object to the given type."},
		},
		"Collection": {
			{Name: "each", Signature: "each(Closure c)", Doc: "Iterates, invoking the closure for each element."},
			{Name: "collect", Signature: "collect(Closure c)", Doc: "Maps each element through the closure, returning a new List."},
			{Name: "find", Signature: "find(Closure c)", Doc: "Returns the first element matching the closure."},
			{Name: "findAll", Signature: "findAll(Closure c)", Doc: "Returns all elements matching the closure."},
			{Name: "inject", Signature: "inject(Object initial, Closure c)", Doc: "Left fold over the collection."},
			{Name: "sort", Signature: "sort()", Doc: "Returns a sorted copy of this collection."},
			{Name: "join", Signature: "join(String separator)", Doc: "Concatenates elements with a separator."},
			{Name: "size", Signature: "size()", Doc: "Returns the number of elements in this collection."},
		},
		"Map": {
			{Name: "each", Signature: "each(Closure c)", Doc: "Iterates, invoking the closure for each entry."},
			{Name: "collect", Signature: "collect(Closure c)", Doc: "Maps each entry through the closure."},
			{Name: "findAll", Signature: "findAll(Closure c)", Doc: "Returns entries matching the closure."},
			{Name: "getOrDefault", Signature: "getOrDefault(Object key, Object def)", Doc: "JDK passthrough, commonly used from Groovy."},
		},
		"String": {
			{Name: "center", Signature: "center(Number width)", Doc: "Pads this String to the given width, centered."},
			{Name: "eachLine", Signature: "eachLine(Closure c)", Doc: "Iterates over each line of this String."},
			{Name: "tokenize", Signature: "tokenize(String delims)", Doc: "Splits this String using the given delimiters."},
			{Name: "toInteger", Signature: "toInteger()", Doc: "Parses this String as an Integer."},
			{Name: "capitalize", Signature: "capitalize()", Doc: "Uppercases the first character."},
		},
	}}
}

func (c *staticMethodCatalog) MethodsFor(receiverType string) []Method {
	return c.byType[receiverType]
}

// staticJenkinsCatalog seeds the Jenkins pipeline globals Jenkinsfile
// completion needs (spec.md §8 S2).
type staticJenkinsCatalog struct {
	vars []JenkinsVariable
}

// DefaultJenkinsCatalog returns the seed JenkinsCatalog.
func DefaultJenkinsCatalog() JenkinsCatalog {
	return &staticJenkinsCatalog{vars: []JenkinsVariable{
		{Name: "env", Type: "EnvActionImpl", Doc: "Environment variables available to the build."},
		{Name: "params", Type: "Map", Doc: "Pipeline parameters."},
		{Name: "currentBuild", Type: "RunWrapper", Doc: "The currently executing build."},
		{Name: "scm", Type: "Object", Doc: "The SCM configuration that triggered this build."},
		{Name: "pipeline", Type: "Object", Doc: "Declarative pipeline DSL entry point."},
	}}
}

func (c *staticJenkinsCatalog) GlobalVariables() []JenkinsVariable {
	return c.vars
}
