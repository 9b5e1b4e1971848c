// Package heap provides read-only accessors for the four CLI metadata heaps.
//
// Each heap is a value type over a byte slice and is addressed by the integer
// indices stored in table rows:
//
//	#Strings  byte offset of a NUL-terminated UTF-8 string; 0 is ""
//	#US       byte offset of a compressed-length UTF-16LE string plus flag byte
//	#GUID     1-based record number of a 16-byte GUID; 0 is the nil GUID
//	#Blob     byte offset of a compressed-length byte range; 0 is empty
//
// Accessors never allocate shared state and are safe for concurrent use.
// Violations of a heap's encoding rule are reported as MalformedHeap.
package heap
