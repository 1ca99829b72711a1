package config_test

import (
	"testing"

	"fraudtriage/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	convey.Convey("Given a fresh default config", t, func() {
		cfg := config.New()

		convey.Convey("Then it should carry the reference defaults", func() {
			convey.So(cfg, convey.ShouldNotBeNil)
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.ModelPath, convey.ShouldEqual, "models/fraud_model.json")
			convey.So(cfg.ScalerPath, convey.ShouldEqual, "models/scaler.json")
			convey.So(cfg.FeedbackPath, convey.ShouldEqual, "feedback_data.csv")
			convey.So(cfg.HistoricalPath, convey.ShouldEqual, "data/creditcard_cleaned.csv")
			convey.So(cfg.HistoricalSampleSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.HistoricalTimeoutMS, convey.ShouldEqual, 5_000)
		})
	})
}
