package def

/*
	WarehouseCoord is a storage location, as a URI string.

	The scheme picks the backend ("file://", "mem://", "s3://",
	"http://", "https://"); the rest of the URI is interpreted by that
	backend.  The user's string is retained verbatim for messages.
*/
type WarehouseCoord string
