package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fraudtriage/internal/adapters/historical"
	"fraudtriage/internal/adapters/http/api"
	service "fraudtriage/internal/app"
	"fraudtriage/internal/domain/model"
	"fraudtriage/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	predictResult  types.PredictionResult
	predictErr     error
	batchLabels    []int
	batchErr       error
	alerts         []model.Alert
	nextAlert      model.Alert
	nextOK         bool
	removed        int
	feedbackErr    error
	feedbackCalls  []feedbackCall
	historicalData []model.LabeledTransaction
	historicalErr  error
	attribution    historical.Attribution
	explainErr     error
	modelLoaded    bool
}

type feedbackCall struct {
	tx              model.Transaction
	modelPrediction int
	userFeedback    int
}

func (m *mockDependencies) Predict(ctx context.Context, tx model.Transaction) (types.PredictionResult, error) {
	return m.predictResult, m.predictErr
}

func (m *mockDependencies) PredictBatch(ctx context.Context, txs []model.Transaction) ([]int, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	return m.batchLabels, nil
}

func (m *mockDependencies) Alerts(ctx context.Context) []model.Alert {
	return m.alerts
}

func (m *mockDependencies) NextAlert(ctx context.Context) (model.Alert, bool) {
	return m.nextAlert, m.nextOK
}

func (m *mockDependencies) RecordFeedback(ctx context.Context, tx model.Transaction, modelPrediction, userFeedback int) (int, error) {
	if m.feedbackErr != nil {
		return 0, m.feedbackErr
	}
	m.feedbackCalls = append(m.feedbackCalls, feedbackCall{tx: tx, modelPrediction: modelPrediction, userFeedback: userFeedback})
	return m.removed, nil
}

func (m *mockDependencies) HistoricalSample(ctx context.Context) ([]model.LabeledTransaction, error) {
	return m.historicalData, m.historicalErr
}

func (m *mockDependencies) Explain(ctx context.Context, tx model.Transaction) (historical.Attribution, error) {
	return m.attribution, m.explainErr
}

func (m *mockDependencies) ModelLoaded() bool {
	return m.modelLoaded
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// newMux registers the full route set over the given mock.
func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func doJSON(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	Convey("Given a server with a loaded model", t, func() {
		mux := newMux(&mockDependencies{modelLoaded: true})

		Convey("When requesting the health endpoint", func() {
			w := doJSON(mux, "GET", "/health", "")

			Convey("Then it should answer 200 with status ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
				So(w.Body.String(), ShouldNotContainSubstring, "model not loaded")
			})
		})

		Convey("When requesting the metrics endpoint", func() {
			w := doJSON(mux, "GET", "/metrics", "")

			Convey("Then it should serve the exposition format", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When requesting the stats endpoint", func() {
			w := doJSON(mux, "GET", "/stats", "")

			Convey("Then it should answer 200 with the stats payload", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			})
		})
	})

	Convey("Given a server with an unloaded model", t, func() {
		mux := newMux(&mockDependencies{modelLoaded: false})

		Convey("When requesting the health endpoint", func() {
			w := doJSON(mux, "GET", "/health", "")

			Convey("Then it should still answer 200 but flag the model", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "model not loaded")
			})
		})
	})
}

func TestServer_Predict(t *testing.T) {
	validBody := `{"Time": 406, "V1": -2.31, "Amount": 0}`

	Convey("Given a server whose service flags the transaction", t, func() {
		deps := &mockDependencies{
			modelLoaded:   true,
			predictResult: types.PredictionResult{Prediction: 1, Probability: 0.97, Confidence: types.ConfidenceHigh},
		}
		mux := newMux(deps)

		Convey("When posting a valid transaction", func() {
			w := doJSON(mux, "POST", "/predict", validBody)

			Convey("Then it should return the verdict with probability and confidence", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var result types.PredictionResult
				So(json.Unmarshal(w.Body.Bytes(), &result), ShouldBeNil)
				So(result.Prediction, ShouldEqual, 1)
				So(result.Probability, ShouldEqual, 0.97)
				So(result.Confidence, ShouldEqual, "High")
			})
		})

		Convey("When posting malformed JSON", func() {
			w := doJSON(mux, "POST", "/predict", `{"Time": `)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "bad_request")
			})
		})

		Convey("When using the wrong method", func() {
			w := doJSON(mux, "GET", "/predict", "")

			Convey("Then it should answer 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a server whose model is not loaded", t, func() {
		mux := newMux(&mockDependencies{predictErr: service.ErrModelNotLoaded})

		Convey("When posting a transaction", func() {
			w := doJSON(mux, "POST", "/predict", validBody)

			Convey("Then it should answer 503", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(w.Body.String(), ShouldContainSubstring, "model_not_loaded")
			})
		})
	})

	Convey("Given a server whose service rejects the transaction", t, func() {
		mux := newMux(&mockDependencies{predictErr: service.ErrInvalidTransaction})

		Convey("When posting a transaction", func() {
			w := doJSON(mux, "POST", "/predict", validBody)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	Convey("Given a server whose inference fails", t, func() {
		mux := newMux(&mockDependencies{predictErr: service.ErrPredictionFailed})

		Convey("When posting a transaction", func() {
			w := doJSON(mux, "POST", "/predict", validBody)

			Convey("Then it should answer 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "prediction_failed")
			})
		})
	})
}

func TestServer_PredictBatch(t *testing.T) {
	Convey("Given a server with a batch-capable service", t, func() {
		deps := &mockDependencies{batchLabels: []int{0, 1, 0}}
		mux := newMux(deps)

		Convey("When posting a batch of transactions", func() {
			body := `{"transactions": [{"Time": 1}, {"Time": 2}, {"Time": 3}]}`
			w := doJSON(mux, "POST", "/predict_batch", body)

			Convey("Then it should return one label per row", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"predictions":[0,1,0]`)
			})
		})

		Convey("When posting malformed JSON", func() {
			w := doJSON(mux, "POST", "/predict_batch", `{"transactions": [`)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the model is not loaded", func() {
			mux := newMux(&mockDependencies{batchErr: service.ErrModelNotLoaded})
			w := doJSON(mux, "POST", "/predict_batch", `{"transactions": []}`)

			Convey("Then it should answer 503", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestServer_Alerts(t *testing.T) {
	Convey("Given a server with pending alerts", t, func() {
		deps := &mockDependencies{
			alerts: []model.Alert{
				{ID: "a-1", Transaction: model.Transaction{Time: 406, Amount: 0}, ModelPrediction: 1, PredictionScore: 0.97},
				{ID: "a-2", Transaction: model.Transaction{Time: 500, Amount: 25}, ModelPrediction: 1, PredictionScore: 0.81},
			},
			nextAlert: model.Alert{ID: "a-1"},
			nextOK:    true,
		}
		mux := newMux(deps)

		Convey("When listing alerts", func() {
			w := doJSON(mux, "GET", "/alerts", "")

			Convey("Then it should return them oldest first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					Alerts []model.Alert `json:"alerts"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Alerts, ShouldHaveLength, 2)
				So(resp.Alerts[0].ID, ShouldEqual, "a-1")
			})
		})

		Convey("When popping the next alert", func() {
			w := doJSON(mux, "POST", "/alerts/next", "")

			Convey("Then it should return the oldest alert", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"id":"a-1"`)
			})
		})
	})

	Convey("Given a server with no pending alerts", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("When listing alerts", func() {
			w := doJSON(mux, "GET", "/alerts", "")

			Convey("Then it should return an empty list, not null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"alerts":[]`)
			})
		})

		Convey("When popping the next alert", func() {
			w := doJSON(mux, "POST", "/alerts/next", "")

			Convey("Then it should answer 404 queue_empty", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, "queue_empty")
			})
		})
	})
}

func TestServer_RecordFeedback(t *testing.T) {
	validBody := `{"transaction": {"Time": 406, "Amount": 0}, "model_prediction": 1, "user_feedback": 0}`

	Convey("Given a server accepting feedback", t, func() {
		deps := &mockDependencies{removed: 1}
		mux := newMux(deps)

		Convey("When posting a valid verdict", func() {
			w := doJSON(mux, "POST", "/alert", validBody)

			Convey("Then it should confirm the feedback was recorded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"status":"success"`)
			})

			Convey("And the verdict should reach the service unchanged", func() {
				So(deps.feedbackCalls, ShouldHaveLength, 1)
				So(deps.feedbackCalls[0].tx.Time, ShouldEqual, 406)
				So(deps.feedbackCalls[0].modelPrediction, ShouldEqual, 1)
				So(deps.feedbackCalls[0].userFeedback, ShouldEqual, 0)
			})
		})

		Convey("When posting a verdict outside {0,1}", func() {
			w := doJSON(mux, "POST", "/alert", `{"transaction": {"Time": 1}, "model_prediction": 1, "user_feedback": 2}`)

			Convey("Then it should answer 400 without touching the service", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(deps.feedbackCalls, ShouldBeEmpty)
			})
		})

		Convey("When posting malformed JSON", func() {
			w := doJSON(mux, "POST", "/alert", `{"transaction": `)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	Convey("Given a server whose feedback log cannot be written", t, func() {
		mux := newMux(&mockDependencies{feedbackErr: service.ErrPersistFailed})

		Convey("When posting a valid verdict", func() {
			w := doJSON(mux, "POST", "/alert", validBody)

			Convey("Then it should answer 500 persist_failed", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "persist_failed")
			})
		})
	})
}

func TestServer_Historical(t *testing.T) {
	Convey("Given a server with historical data", t, func() {
		deps := &mockDependencies{
			historicalData: []model.LabeledTransaction{
				{Transaction: model.Transaction{Time: 1, Amount: 10}, Class: 0},
				{Transaction: model.Transaction{Time: 2, Amount: 20}, Class: 1},
			},
		}
		mux := newMux(deps)

		Convey("When requesting historical data", func() {
			w := doJSON(mux, "GET", "/historical_data", "")

			Convey("Then it should return the sample with labels", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"Class":1`)
			})
		})
	})

	Convey("Given a server with a stale cached sample", t, func() {
		deps := &mockDependencies{
			historicalData: []model.LabeledTransaction{{Transaction: model.Transaction{Time: 1}}},
			historicalErr:  historical.ErrEmptyDataset,
		}
		mux := newMux(deps)

		Convey("When requesting historical data", func() {
			w := doJSON(mux, "GET", "/historical_data", "")

			Convey("Then it should fail soft and serve the cache", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})

	Convey("Given a server with no historical data at all", t, func() {
		mux := newMux(&mockDependencies{historicalErr: historical.ErrEmptyDataset})

		Convey("When requesting historical data", func() {
			w := doJSON(mux, "GET", "/historical_data", "")

			Convey("Then it should answer 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, "historical_unavailable")
			})
		})
	})
}

func TestServer_Explain(t *testing.T) {
	Convey("Given a server with anomaly attribution", t, func() {
		deps := &mockDependencies{
			attribution: historical.Attribution{Feature: "V14", ZScore: 4.2, OutOfDistribution: true},
		}
		mux := newMux(deps)

		Convey("When posting a transaction", func() {
			w := doJSON(mux, "POST", "/explain", `{"Time": 406, "V14": -4.29, "Amount": 0}`)

			Convey("Then it should name the most anomalous feature", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"feature":"V14"`)
				So(w.Body.String(), ShouldContainSubstring, `"out_of_distribution":true`)
			})
		})

		Convey("When posting malformed JSON", func() {
			w := doJSON(mux, "POST", "/explain", `{`)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	Convey("Given a server whose service rejects the transaction", t, func() {
		mux := newMux(&mockDependencies{explainErr: service.ErrInvalidTransaction})

		Convey("When posting a transaction", func() {
			w := doJSON(mux, "POST", "/explain", `{"Time": 1}`)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}
