package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamscout/streamscout/filesystem"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("file:name?.txt"), ShouldEqual, "file_name_.txt")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("file__name.txt"), ShouldEqual, "file_name.txt")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-file-name-"), ShouldEqual, "file-name")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "file", "files"), ShouldEqual, "1 file")
		So(Quantify(2, "file", "files"), ShouldEqual, "2 files")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/file.txt"), ShouldEqual, "file")
		So(FileStem("file"), ShouldEqual, "file")
	})
}

func TestMax(t *testing.T) {
	Convey("Max", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		So(fs.MkdirAll("/tmp/a/b", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/a/b/c.txt", []byte("x"), 0o644), ShouldBeNil)
		So(fs.WriteFile("/tmp/d.txt", []byte("x"), 0o644), ShouldBeNil)

		Convey("Should remove a file", func() {
			So(Delete("/tmp/d.txt"), ShouldBeNil)
			_, err := fs.Stat("/tmp/d.txt")
			So(err, ShouldNotBeNil)
		})

		Convey("Should remove a directory tree", func() {
			So(Delete("/tmp/a"), ShouldBeNil)
			_, err := fs.Stat("/tmp/a/b/c.txt")
			So(err, ShouldNotBeNil)
		})

		Convey("Should report a missing path", func() {
			So(Delete("/tmp/missing"), ShouldNotBeNil)
		})
	})
}
