// Package assets provides the page templates and stylesheets used to wrap
// rendered quiz markup into standalone view pages.
//
// # Loaders
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in assets compiled in with go:embed
//	    ├── FilesystemLoader  - assets from a directory on disk
//	    └── AssetResolver     - directory first, embedded as fallback
//
// A custom directory only needs the assets it overrides; everything else
// falls back to the embedded set.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css      # view page stylesheet (e.g. compact.css)
//	└── templates/
//	    └── {name}.html     # html/template page with .Title .Body .CSS
//
// # Security
//
// Asset names cannot contain path separators or dots. FilesystemLoader
// resolves symlinks and rejects paths that leave basePath.
package assets
