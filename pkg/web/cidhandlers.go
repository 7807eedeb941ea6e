// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/cidsrv/cidsrv/pkg/catalog"
	"github.com/cidsrv/cidsrv/pkg/cidsearch"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/sirupsen/logrus"
)

// user facing messages (pt-BR), part of the wire format
const (
	NotFoundMessage    = "Nenhum CID correspondente encontrado"
	InvalidModeMessage = "Modo de busca especificado inválido"
)

const SearchModeParam = "search_mode"

// CidResult is one lookup or search hit on the wire
type CidResult struct {
	Code string `json:"Código"`
	Name string `json:"Nome"`
}

type catalogInfo struct {
	Records  int   `json:"records"`
	Codes    int   `json:"codes"`
	LoadedAt int64 `json:"loadedat"`
}

type healthInfo struct {
	Status  string      `json:"status"`
	Time    int64       `json:"time"`
	Catalog catalogInfo `json:"catalog"`
	Rss     uint64      `json:"rss,omitempty"`
}

type cidHandlers struct {
	store *CatalogStore
}

func RegisterRoutes(gr *mux.Router, store *CatalogStore) {
	h := &cidHandlers{store: store}
	jsonOpts := WebFnOpts{AllowCaching: false, JsonErrors: true}
	gr.HandleFunc("/health", WebFnWrap(jsonOpts, h.handleHealth)).Methods(http.MethodGet)
	gr.HandleFunc("/cid", WebFnWrap(jsonOpts, h.handleListCids)).Methods(http.MethodGet)
	gr.HandleFunc("/cid/search/{term}", WebFnWrap(jsonOpts, h.handleSearchCids)).Methods(http.MethodGet)
	gr.HandleFunc("/cid/{code}", WebFnWrap(jsonOpts, h.handleGetCid)).Methods(http.MethodGet)
}

func toResults(entries []catalog.Entry) []CidResult {
	rtn := make([]CidResult, 0, len(entries))
	for _, e := range entries {
		rtn = append(rtn, CidResult{Code: e.Code, Name: e.Name})
	}
	return rtn
}

func (h *cidHandlers) handleListCids(w http.ResponseWriter, r *http.Request) {
	WriteJson(w, http.StatusOK, h.store.Catalog().List())
}

func (h *cidHandlers) handleGetCid(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	entry, err := h.store.Catalog().Lookup(code)
	if errors.Is(err, catalog.ErrNotFound) {
		WriteJsonError(w, http.StatusNotFound, NotFoundMessage)
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	WriteJson(w, http.StatusOK, toResults([]catalog.Entry{entry}))
}

func (h *cidHandlers) handleSearchCids(w http.ResponseWriter, r *http.Request) {
	term := mux.Vars(r)["term"]
	mode := cidsearch.SearchModeFlexible
	if vals, ok := r.URL.Query()[SearchModeParam]; ok && len(vals) > 0 {
		mode = vals[0]
	}
	matches, err := cidsearch.Search(h.store.Catalog(), term, mode)
	if errors.Is(err, cidsearch.ErrInvalidMode) {
		WriteJsonError(w, http.StatusBadRequest, InvalidModeMessage)
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if len(matches) == 0 {
		WriteJsonError(w, http.StatusNotFound, NotFoundMessage)
		return
	}
	WriteJson(w, http.StatusOK, toResults(matches))
}

func (h *cidHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	info := healthInfo{
		Status: "ok",
		Time:   time.Now().UnixMilli(),
		Catalog: catalogInfo{
			Records:  snap.Catalog.Len(),
			Codes:    snap.Catalog.Size(),
			LoadedAt: snap.LoadedAt.UnixMilli(),
		},
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		mem, err := proc.MemoryInfo()
		if err == nil {
			info.Rss = mem.RSS
		} else {
			logrus.WithError(err).Debug("[web] cannot read process memory")
		}
	}
	WriteJsonSuccess(w, info)
}
