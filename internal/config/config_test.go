package config_test

import (
	"errors"
	"testing"

	"assessly-backend/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

const minimalXML = `<API REQUEST_DUMP="true">
	<AUTHENTICATION>
		<ACCESS_SECRET>a</ACCESS_SECRET>
		<REFRESH_SECRET>r</REFRESH_SECRET>
	</AUTHENTICATION>
	<SCORING>
		<ANSWER_TYPE CODE="AKY" SCORE="100"/>
		<ANSWER_TYPE CODE="CY" SCORE="50"/>
	</SCORING>
</API>`

func TestParse(t *testing.T) {
	convey.Convey("Given an XML document", t, func() {
		t.Setenv("ASSESSLY_JWT_ACCESS_SECRET", "")
		t.Setenv("ASSESSLY_JWT_REFRESH_SECRET", "")

		convey.Convey("When only the required fields are set", func() {
			cfg, err := config.Parse([]byte(minimalXML))

			convey.Convey("Then defaults are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RequestDump, convey.ShouldBeTrue)
				convey.So(cfg.Context.Port, convey.ShouldEqual, 8080)
				convey.So(cfg.Pagination.PageSize, convey.ShouldEqual, 20)
				convey.So(cfg.Cache.Driver, convey.ShouldEqual, "memory")
				convey.So(cfg.Cache.TTLSeconds, convey.ShouldEqual, 300)
				convey.So(cfg.Authentication.SessionTimeout, convey.ShouldEqual, 15)
			})

			convey.Convey("And the score table is decoded", func() {
				convey.So(cfg.Scoring.AnswerTypes, convey.ShouldResemble, []config.AnswerTypeScore{
					{Code: "AKY", Score: 100},
					{Code: "CY", Score: 50},
				})
			})
		})

		convey.Convey("When secrets come from the environment", func() {
			t.Setenv("ASSESSLY_JWT_ACCESS_SECRET", "env-access")
			cfg, err := config.Parse([]byte(minimalXML))

			convey.Convey("Then the environment wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Authentication.AccessSecret, convey.ShouldEqual, "env-access")
				convey.So(cfg.Authentication.RefreshSecret, convey.ShouldEqual, "r")
			})
		})

		convey.Convey("When secrets are missing", func() {
			_, err := config.Parse([]byte(`<API></API>`))

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the redis driver has no address", func() {
			t.Setenv("ASSESSLY_REDIS_ADDR", "")
			doc := `<API><AUTHENTICATION><ACCESS_SECRET>a</ACCESS_SECRET><REFRESH_SECRET>r</REFRESH_SECRET></AUTHENTICATION>
				<CACHE><DRIVER>redis</DRIVER></CACHE></API>`
			_, err := config.Parse([]byte(doc))
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When an answer type code is repeated", func() {
			doc := `<API><AUTHENTICATION><ACCESS_SECRET>a</ACCESS_SECRET><REFRESH_SECRET>r</REFRESH_SECRET></AUTHENTICATION>
				<SCORING><ANSWER_TYPE CODE="Y" SCORE="0"/><ANSWER_TYPE CODE="Y" SCORE="10"/></SCORING></API>`
			_, err := config.Parse([]byte(doc))
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the document is not XML", func() {
			_, err := config.Parse([]byte(`{"json": true}`))
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
