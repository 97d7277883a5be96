package assets

// defaultLoader serves the package-level helpers.
var defaultLoader = NewEmbeddedLoader()

// Styles lists the embedded stylesheet names.
func Styles() []string {
	return defaultLoader.Styles()
}
