package protogen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
)

// RegisterChordServiceHandlerFromEndpoint dials endpoint and registers REST
// routes on mux that translate HTTP requests into ChordService RPCs. A
// protoc-generated gateway would derive these routes from google.api.http
// annotations on the .proto file; since this service has no .proto, the
// routes below are hand-written to match ChordService's RPC surface. Routes
// are kept alive for the lifetime of ctx.
func RegisterChordServiceHandlerFromEndpoint(ctx context.Context, mux *runtime.ServeMux, endpoint string, opts []grpc.DialOption) error {
	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return fmt.Errorf("failed to dial ChordService at %s: %w", endpoint, err)
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	return RegisterChordServiceHandlerClient(ctx, mux, NewChordServiceClient(conn))
}

// RegisterChordServiceHandlerClient registers REST routes on mux backed by
// an already-dialed ChordServiceClient.
func RegisterChordServiceHandlerClient(ctx context.Context, mux *runtime.ServeMux, client ChordServiceClient) error {
	mux.HandlePath(http.MethodGet, "/v1/ring/predecessor", gatewayGetPredecessor(client))
	mux.HandlePath(http.MethodGet, "/v1/ring/successors", gatewayGetSuccessorList(client))
	mux.HandlePath(http.MethodGet, "/v1/ring/lookup/{id}", gatewayFindSuccessor(client))
	mux.HandlePath(http.MethodGet, "/v1/ring/lookup/{id}/path", gatewayFindSuccessorWithPath(client))
	mux.HandlePath(http.MethodGet, "/v1/ring/ping", gatewayPing(client))
	mux.HandlePath(http.MethodGet, "/v1/kv/{key}", gatewayGet(client))
	mux.HandlePath(http.MethodPut, "/v1/kv/{key}", gatewaySet(client))
	mux.HandlePath(http.MethodDelete, "/v1/kv/{key}", gatewayDelete(client))
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func parseRingID(s string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid ring id %q: must be a base-10 integer", s)
	}
	return id, nil
}

func gatewayGetPredecessor(client ChordServiceClient) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		resp, err := client.GetPredecessor(r.Context(), &GetPredecessorRequest{})
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func gatewayGetSuccessorList(client ChordServiceClient) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		resp, err := client.GetSuccessorList(r.Context(), &GetSuccessorListRequest{})
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func gatewayFindSuccessor(client ChordServiceClient) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		id, err := parseRingID(pathParams["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := client.FindSuccessor(r.Context(), &FindSuccessorRequest{Id: id.Bytes()})
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func gatewayFindSuccessorWithPath(client ChordServiceClient) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		id, err := parseRingID(pathParams["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := client.FindSuccessorWithPath(r.Context(), &FindSuccessorWithPathRequest{Id: id.Bytes()})
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func gatewayPing(client ChordServiceClient) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		resp, err := client.Ping(r.Context(), &PingRequest{Message: "ping"})
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func gatewayGet(client ChordServiceClient) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		resp, err := client.Get(r.Context(), &GetRequest{Key: pathParams["key"]})
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		if !resp.Found {
			writeJSON(w, http.StatusNotFound, resp)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func gatewaySet(client ChordServiceClient) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var payload struct {
			Value      []byte `json:"value"`
			TtlSeconds int64  `json:"ttl_seconds"`
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
		}
		resp, err := client.Set(r.Context(), &SetRequest{
			Key:        pathParams["key"],
			Value:      payload.Value,
			TtlSeconds: payload.TtlSeconds,
		})
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func gatewayDelete(client ChordServiceClient) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		resp, err := client.Delete(r.Context(), &DeleteRequest{Key: pathParams["key"]})
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
