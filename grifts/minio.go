package grifts

import (
	"github.com/gobuffalo/grift/grift"

	"github.com/pawtrail/pawtrail-api/storage"
)

var _ = grift.Namespace("minio", func() {
	_ = grift.Desc("seed", "create the local minIO bucket")
	_ = grift.Add("seed", func(c *grift.Context) error {
		return storage.CreateS3Bucket()
	})
})
