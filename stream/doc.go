// Package stream parses the CLI metadata root ("BSJB" header) and its stream
// directory.
//
// The root records the runtime version string and, for each stream, a name
// with an offset and size relative to the start of the root:
//
//	root, err := stream.ParseRoot(data)
//	if err != nil {
//	    return err
//	}
//	h, ok := root.Find(stream.Strings)
//	strings, err := h.Bytes(data)
//
// Names other than the well-known ones are kept in Root.Streams but carry no
// meaning for the rest of the decoder.
package stream
