package sanctions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hollyoak/warden/internal/dependencies/mocks"
	"github.com/hollyoak/warden/internal/model"
	"github.com/hollyoak/warden/internal/testutil"
)

const testPUID = "000102030405060708090a0b0c0d0e0f"

// fakeAuthorityServer imitates the authority's token and sanction
// endpoints with scriptable sanction responses.
type fakeAuthorityServer struct {
	server *httptest.Server

	tokenExchanges  atomic.Int32
	sanctionCalls   atomic.Int32
	sanctionHandler func(w http.ResponseWriter, r *http.Request)

	lastMethod string
	lastPath   string
	lastAuth   string
	lastBody   []sanctionRequest
}

func newFakeAuthorityServer() *fakeAuthorityServer {
	f := &fakeAuthorityServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		n := f.tokenExchanges.Add(1)
		if user, _, ok := r.BasicAuth(); !ok || user != "client-id" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("tok-%d", n),
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/sanctions/", func(w http.ResponseWriter, r *http.Request) {
		f.sanctionCalls.Add(1)
		f.lastMethod = r.Method
		f.lastPath = r.URL.Path
		f.lastAuth = r.Header.Get("Authorization")
		f.lastBody = nil
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&f.lastBody)
		}
		if f.sanctionHandler != nil {
			f.sanctionHandler(w, r)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	f.server = httptest.NewServer(mux)
	return f
}

type ClientSuite struct {
	suite.Suite
	authority *fakeAuthorityServer
	clock     *mocks.MockClock
	client    *Client
	ctx       context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.authority = newFakeAuthorityServer()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.client = NewClient(Config{
		BaseURL:      s.authority.server.URL,
		DeploymentID: "deploy-1",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		MaxRetries:   2,
	}, s.clock, nil, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ClientSuite) TearDownTest() {
	s.authority.server.Close()
}

func (s *ClientSuite) TestCreateSanctionPermanent() {
	err := s.client.CreateSanction(s.ctx, testPUID, "cheating", nil)
	s.Require().NoError(err)

	s.Equal(http.MethodPost, s.authority.lastMethod)
	s.Equal("/sanctions/v1/deploy-1/sanctions", s.authority.lastPath)
	s.Equal("Bearer tok-1", s.authority.lastAuth)
	s.Require().Len(s.authority.lastBody, 1)
	s.Equal(testPUID, s.authority.lastBody[0].ProductUserID)
	s.Equal(sanctionAction, s.authority.lastBody[0].Action)
	s.Equal("cheating", s.authority.lastBody[0].Justification)
	s.Empty(s.authority.lastBody[0].ExpirationTimestamp)
}

func (s *ClientSuite) TestCreateSanctionTimed() {
	expires := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
	err := s.client.CreateSanction(s.ctx, testPUID, "griefing", &expires)
	s.Require().NoError(err)

	s.Require().Len(s.authority.lastBody, 1)
	s.Equal("2025-06-01T13:00:00Z", s.authority.lastBody[0].ExpirationTimestamp)
}

func (s *ClientSuite) TestCreateSanctionNormalizesIdentity() {
	err := s.client.CreateSanction(s.ctx, "00010203-0405-0607-0809-0A0B0C0D0E0F", "cheating", nil)
	s.Require().NoError(err)
	s.Equal(testPUID, s.authority.lastBody[0].ProductUserID)
}

func (s *ClientSuite) TestCreateSanctionRejectsUnnormalizableIdentity() {
	err := s.client.CreateSanction(s.ctx, "short", "cheating", nil)
	s.ErrorIs(err, model.ErrInvalidIdentity)
	s.Zero(s.authority.sanctionCalls.Load())
}

func (s *ClientSuite) TestDeleteSanction() {
	err := s.client.DeleteSanction(s.ctx, testPUID)
	s.Require().NoError(err)
	s.Equal(http.MethodDelete, s.authority.lastMethod)
	s.Equal("/sanctions/v1/deploy-1/sanctions/"+testPUID, s.authority.lastPath)
}

func (s *ClientSuite) TestTokenReusedAcrossCalls() {
	s.Require().NoError(s.client.CreateSanction(s.ctx, testPUID, "first", nil))
	s.Require().NoError(s.client.DeleteSanction(s.ctx, testPUID))
	s.Equal(int32(1), s.authority.tokenExchanges.Load())
}

func (s *ClientSuite) TestRejectionIsPermanentNotRetried() {
	s.authority.sanctionHandler = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sanction already exists", http.StatusConflict)
	}

	err := s.client.CreateSanction(s.ctx, testPUID, "cheating", nil)
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrExternalSanction)
	s.Contains(err.Error(), "409")
	s.Equal(int32(1), s.authority.sanctionCalls.Load())
}

func (s *ClientSuite) TestServerFailureRetried() {
	var failures atomic.Int32
	s.authority.sanctionHandler = func(w http.ResponseWriter, r *http.Request) {
		if failures.Add(1) == 1 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}

	err := s.client.CreateSanction(s.ctx, testPUID, "cheating", nil)
	s.Require().NoError(err)
	s.Equal(int32(2), s.authority.sanctionCalls.Load())
}

func (s *ClientSuite) TestStaleTokenInvalidatedAndRetried() {
	var rejected atomic.Int32
	s.authority.sanctionHandler = func(w http.ResponseWriter, r *http.Request) {
		if rejected.Add(1) == 1 {
			http.Error(w, "token expired", http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}

	err := s.client.CreateSanction(s.ctx, testPUID, "cheating", nil)
	s.Require().NoError(err)

	// The 401 forced a second exchange; the retry carried the fresh token
	s.Equal(int32(2), s.authority.tokenExchanges.Load())
	s.Equal("Bearer tok-2", s.authority.lastAuth)
}

func (s *ClientSuite) TestExhaustedRetriesSurfaceError() {
	s.authority.sanctionHandler = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "still broken", http.StatusInternalServerError)
	}

	err := s.client.CreateSanction(s.ctx, testPUID, "cheating", nil)
	s.Require().Error(err)
	s.ErrorIs(err, model.ErrExternalSanction)
	// Initial attempt plus MaxRetries
	s.Equal(int32(3), s.authority.sanctionCalls.Load())
}
