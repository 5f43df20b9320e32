// Package metadatahandler serves the off-chain documents that certificates
// point to. A document's content ID (the hex SHA-256 of its bytes) is the
// value recommended as a certificate's metadata hash, so anyone holding the
// document can check it against the registry.
//
// Documents are kept in an interfaces.StorageBackend, usually a
// storage.MultiStorageBackend built from --metadata-backend URIs.
package metadatahandler
