package devtools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/rxstore/developer"
	"github.com/sarchlab/rxstore/observable"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Controller is the part of a developer store that the server drives.
type Controller interface {
	Store
	Pause()
	Continue()
	LoadByCategory(ctx context.Context, c developer.Category) *observable.Future[developer.State]
	AddDeveloper(
		ctx context.Context,
		c developer.Category,
		name string,
		skills []string,
	) *observable.Future[developer.Developer]
}

// Server exposes a store over HTTP so that it can be inspected and driven
// from outside the process.
type Server struct {
	store           Controller
	bridge          *Bridge
	history         *History
	portNumber      int
	profileDuration time.Duration
	logger          *log.Logger

	httpServer *http.Server
	url        string
}

// NewServer creates a server for the store.
func NewServer(store Controller) *Server {
	return &Server{
		store:           store,
		profileDuration: time.Second,
		logger:          log.Default(),
	}
}

// WithPortNumber sets the port number of the server. Ports below 1000 are not
// allowed and result in a random port.
func (s *Server) WithPortNumber(portNumber int) *Server {
	if portNumber < 1000 {
		if portNumber != 0 {
			s.logger.Printf(
				"Port number %d is assigned to the devtools server, "+
					"which is not allowed. Using a random port instead.",
				portNumber)
		}

		portNumber = 0
	}

	s.portNumber = portNumber

	return s
}

// WithBridge sets the bridge that inbound messages are applied through.
func (s *Server) WithBridge(b *Bridge) *Server {
	s.bridge = b
	return s
}

// WithHistory sets the history served by the history endpoints.
func (s *Server) WithHistory(h *History) *Server {
	s.history = h
	return s
}

// WithLogger sets the logger of the server.
func (s *Server) WithLogger(logger *log.Logger) *Server {
	s.logger = logger
	return s
}

// WithProfileDuration sets how long the profile endpoint samples the CPU.
func (s *Server) WithProfileDuration(d time.Duration) *Server {
	s.profileDuration = d
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/state", s.getState).Methods(http.MethodGet)
	r.HandleFunc("/api/state", s.putState).Methods(http.MethodPut)
	r.HandleFunc("/api/state/{field}", s.getStateField).Methods(http.MethodGet)
	r.HandleFunc("/api/history", s.getHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/history/jump/{index}", s.jump).Methods(http.MethodPost)
	r.HandleFunc("/api/history/import", s.importHistory).Methods(http.MethodPost)
	r.HandleFunc("/api/dispatch", s.dispatch).Methods(http.MethodPost)
	r.HandleFunc("/api/pause", s.pause).Methods(http.MethodPost)
	r.HandleFunc("/api/continue", s.resume).Methods(http.MethodPost)
	r.HandleFunc("/api/actions/load/{category}", s.load).Methods(http.MethodPost)
	r.HandleFunc("/api/actions/add", s.add).Methods(http.MethodPost)
	r.HandleFunc("/api/resource", s.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", s.collectProfile).Methods(http.MethodGet)

	return r
}

// StartServer starts serving in the background and returns the URL the
// server listens on.
func (s *Server) StartServer() (string, error) {
	actualPort := ":0"
	if s.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(s.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	s.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "Inspecting developer store with %s\n", s.url)

	go func() {
		err := s.httpServer.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("devtools server stopped: %v", err)
		}
	}()

	return s.url, nil
}

// OpenBrowser opens the state endpoint of a started server in the browser.
func (s *Server) OpenBrowser() error {
	if s.url == "" {
		return errors.New("devtools server not started")
	}

	return browser.OpenURL(s.url + "/api/state")
}

// Shutdown stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) getState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.store.Snapshot())
}

func (s *Server) putState(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	state, err := decodeState(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	writeFuture(s, w, r, s.store.Inject(state, "devtools replace state"))
}

func (s *Server) getStateField(w http.ResponseWriter, r *http.Request) {
	fields := strings.Split(mux.Vars(r)["field"], ".")
	state := s.store.Snapshot()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&state)
	serializer.SetMaxDepth(2)

	if err := serializer.SetEntryPoint(fields); err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	buf := bytes.NewBuffer(nil)
	if err := serializer.Serialize(buf); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	s.write(w, buf.Bytes())
}

func (s *Server) getHistory(w http.ResponseWriter, _ *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, errors.New("no history recorded"))
		return
	}

	s.writeJSON(w, s.history.Lifted())
}

func (s *Server) jump(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, errors.New("no history recorded"))
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.history.Jump(index); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) importHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, errors.New("no history recorded"))
		return
	}

	lifted := EmptyLiftedState()
	if err := json.NewDecoder(r.Body).Decode(&lifted); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.history.Import(lifted); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	if s.bridge == nil || !s.bridge.Active() {
		s.writeError(w, http.StatusServiceUnavailable,
			errors.New("no inspector connected"))
		return
	}

	msg, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	f, err := s.bridge.Receive(msg)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if f == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeFuture(s, w, r, f)
}

func (s *Server) pause(w http.ResponseWriter, _ *http.Request) {
	s.store.Pause()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) resume(w http.ResponseWriter, _ *http.Request) {
	s.store.Continue()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) {
	category, err := developer.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	writeFuture(s, w, r, s.store.LoadByCategory(context.Background(), category))
}

type addReq struct {
	Category string   `json:"category"`
	Name     string   `json:"name"`
	Skills   []string `json:"skills"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	req := addReq{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	writeFuture(s, w, r, s.store.AddDeveloper(
		context.Background(),
		developer.Category(req.Category),
		req.Name,
		req.Skills,
	))
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (s *Server) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (s *Server) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}

	time.Sleep(s.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, prof)
}

// writeFuture waits for an action to settle and writes its outcome. Actions
// that were ignored produce a 204.
func writeFuture[T any](
	s *Server,
	w http.ResponseWriter,
	r *http.Request,
	f *observable.Future[T],
) {
	v, err := f.Wait(r.Context())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, developer.ErrStoreClosed) {
			status = http.StatusServiceUnavailable
		}

		s.writeError(w, status, err)

		return
	}

	if _, ok := f.Value(); !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.writeJSON(w, v)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	s.write(w, data)
}

func (*Server) writeError(w http.ResponseWriter, status int, err error) {
	http.Error(w, err.Error(), status)
}

func (s *Server) write(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		s.logger.Printf("devtools: cannot write response: %v", err)
	}
}
