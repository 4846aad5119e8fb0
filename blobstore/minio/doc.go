// Package minio stores array snapshots in MinIO or any S3-compatible service
// (Ceph, Garage, SeaweedFS) through the MinIO Go client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "arrays/")
//	err = snapshot.Save(ctx, store, "grid.fxa", a)
package minio
