package rubricfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const validRubricCSV = `name,weight,required_keywords,optional_keywords,min_words,max_words,description
Salutation,10,"hello,good morning",everyone,5,50,greets the audience
Key Information,20,"name,school,family",,10,300,shares personal details
Flow,15,,,,,ideas follow a clear order
`

func writeTempRubric(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rubric.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given a rubric CSV loader", t, func() {
		Convey("When loading a valid file", func() {
			r, err := Load(writeTempRubric(t, validRubricCSV))
			So(err, ShouldBeNil)

			Convey("Then criteria come back in file order", func() {
				So(r.Len(), ShouldEqual, 3)
				So(r.Criteria()[0].Name, ShouldEqual, "Salutation")
				So(r.Criteria()[2].Name, ShouldEqual, "Flow")
				So(r.TotalWeight(), ShouldEqual, 45)
			})

			Convey("And keyword cells split on commas", func() {
				sal := r.Criteria()[0]
				So(sal.RequiredKeywords, ShouldResemble, []string{"hello", "good morning"})
				So(sal.OptionalKeywords, ShouldResemble, []string{"everyone"})
			})

			Convey("And empty cells mean no keywords and no bounds", func() {
				flow := r.Criteria()[2]
				So(flow.RequiredKeywords, ShouldBeNil)
				So(flow.OptionalKeywords, ShouldBeNil)
				So(flow.MinWords, ShouldEqual, 0)
				So(flow.MaxWords, ShouldEqual, 0)
			})
		})

		Convey("When the header order differs, columns are matched by name", func() {
			shuffled := `description,max_words,min_words,optional_keywords,required_keywords,weight,name
greets people,50,5,everyone,"hello",10,Salutation
`
			r, err := Load(writeTempRubric(t, shuffled))
			So(err, ShouldBeNil)
			So(r.Criteria()[0].Name, ShouldEqual, "Salutation")
			So(r.Criteria()[0].MaxWords, ShouldEqual, 50)
		})

		Convey("When the file does not exist", func() {
			_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
			So(errors.Is(err, ErrLoad), ShouldBeTrue)
		})

		Convey("When a column is missing", func() {
			_, err := Load(writeTempRubric(t, "name,weight\nSalutation,10\n"))
			So(errors.Is(err, ErrLoad), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "required_keywords")
		})

		Convey("When there are no criterion rows", func() {
			_, err := Load(writeTempRubric(t,
				"name,weight,required_keywords,optional_keywords,min_words,max_words,description\n"))
			So(errors.Is(err, ErrLoad), ShouldBeTrue)
		})

		Convey("When a weight is not numeric", func() {
			bad := `name,weight,required_keywords,optional_keywords,min_words,max_words,description
Salutation,heavy,,,,,greets
`
			_, err := Load(writeTempRubric(t, bad))
			So(errors.Is(err, ErrLoad), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "row 2")
		})

		Convey("When a bound is negative", func() {
			bad := `name,weight,required_keywords,optional_keywords,min_words,max_words,description
Salutation,10,,,-3,,greets
`
			_, err := Load(writeTempRubric(t, bad))
			So(errors.Is(err, ErrLoad), ShouldBeTrue)
		})

		Convey("When rubric-level validation fails", func() {
			dup := `name,weight,required_keywords,optional_keywords,min_words,max_words,description
Salutation,10,,,,,greets
Salutation,20,,,,,greets again
`
			_, err := Load(writeTempRubric(t, dup))
			So(errors.Is(err, ErrLoad), ShouldBeTrue)
		})
	})
}
