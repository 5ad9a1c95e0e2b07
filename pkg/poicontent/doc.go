// Package poicontent implements a content service for points of interest:
// registered users attach comments and files to POI references, uploads run
// through a two-phase announce/bind protocol keyed by durable integer tokens,
// and list responses are enriched with like/unlike tallies.
//
// The package is storage-agnostic. Rows live behind the Repository interface
// (in-memory and Postgres implementations under repo/), uploaded files behind
// the FileStore interface (filesystem, S3 and in-memory implementations under
// storage/), and upload tokens behind token.Issuer.
package poicontent
