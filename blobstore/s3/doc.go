// Package s3 stores array snapshots in Amazon S3.
//
//	store, err := s3.New(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "arrays/"
//	})
//	err = snapshot.Save(ctx, store, "grid.fxa", a)
//
// Reads are ranged GetObject calls. Puts below the multipart part size carry a
// CRC32C checksum; larger ones go through the multipart uploader.
package s3
