// Package clrmeta decodes ECMA-335 CLI metadata: the metadata root of a .NET
// assembly or module, its heaps and its tables.
//
// The caller supplies the raw metadata bytes, the blob a PE image's CLI
// header points at. Parse copies them, decodes every table and verifies
// every heap reference up front, so the query methods on Metadata never
// fail.
//
// # Packages
//
//	clrmeta/       Parse, Metadata and the typed row projections
//	├── stream/    BSJB root and stream directory
//	├── heap/      #Strings, #US, #GUID and #Blob views, compressed integers
//	├── table/     #~ header, column layouts, row decoding
//	└── errors/    Structured error types
//
// # Quick Start
//
//	md, err := clrmeta.Parse(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if asm := md.Assembly(); asm != nil {
//	    fmt.Println(asm.FullName())
//	}
//	for t := range md.Types() {
//	    fmt.Println(t.FullName())
//	    for m := range t.Methods() {
//	        fmt.Println("  ", m.Name)
//	    }
//	}
//
// # Errors
//
// All errors are *errors.Error values carrying a phase and a kind. Match the
// kind with the sentinels:
//
//	if errors.Is(err, mderrors.ErrTruncatedInput) { ... }
//
// # Logging
//
// Parse logs through zap. The package logger is a no-op unless SetLogger is
// called; Config.Logger overrides it for a single parse.
package clrmeta
