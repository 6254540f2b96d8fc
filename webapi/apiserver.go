package webapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gonuts/commander"
	"github.com/gorilla/mux"
)

var (
	trainFile    string
	featuresFile string
	labelsFile   string
	legacyUnseen bool
	address      string
)

type Request struct {
	Conll string `json:"conll"`
}

type ParseResponse struct {
	Conll string `json:"conll"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Failed writing response:", err)
	}
}

func readRequest(w http.ResponseWriter, r *http.Request) (*Request, bool) {
	req := &Request{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{fmt.Sprintf("bad request: %v", err)})
		return nil, false
	}
	return req, true
}

func (p *MSTParser) parseHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := readRequest(w, r)
	if !ok {
		return
	}
	output, err := p.ParseConll(req.Conll)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ParseResponse{output})
}

func (p *MSTParser) evalHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := readRequest(w, r)
	if !ok {
		return
	}
	scores, err := p.EvalConll(req.Conll)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// Router registers the parser's routes.
func (p *MSTParser) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/mst/parse", p.parseHandler).Methods(http.MethodPost)
	router.HandleFunc("/mst/eval", p.evalHandler).Methods(http.MethodPost)
	router.HandleFunc("/mst/health", healthHandler).Methods(http.MethodGet)
	return router
}

func APIServerStart(cmd *commander.Command, args []string) error {
	if trainFile == "" {
		cmd.Usage()
		return fmt.Errorf("required flag tc not set")
	}
	parser, err := MSTParserInitialize(trainFile, featuresFile, labelsFile, legacyUnseen)
	if err != nil {
		return err
	}
	log.Println("Starting API server on", address)
	return http.ListenAndServe(address, parser.Router())
}

func APIServerStartCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       APIServerStart,
		UsageLine: "api <file options>",
		Short:     "trains a graph-based parser and serves it over HTTP",
		Long: `
trains a graph-based parser and serves it over HTTP

	$ ./dependency-parser api -tc <conll> [-addr :8000]

	POST /mst/parse  {"conll": "<sentences>"}  parses unannotated sentences
	POST /mst/eval   {"conll": "<sentences>"}  scores a parse of annotated sentences
	GET  /mst/health

`,
	}
	cmd.Flag.StringVar(&trainFile, "tc", "", "Training Conll File")
	cmd.Flag.StringVar(&featuresFile, "f", "", "Features Configuration File (YAML, built-in set if empty)")
	cmd.Flag.StringVar(&labelsFile, "l", "", "Dependency Labels Configuration File")
	cmd.Flag.BoolVar(&legacyUnseen, "legacy-unseen", false, "Map unseen features to the feature table size")
	cmd.Flag.StringVar(&address, "addr", ":8000", "Listen address")
	return cmd
}

func AllCommands() *commander.Command {
	return &commander.Command{
		UsageLine:   os.Args[0] + " api",
		Short:       "invoke the parser as an api server",
		Subcommands: []*commander.Command{APIServerStartCmd()},
	}
}
