package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

// maxRequestBody caps registry request bodies in both encodings.  Records
// are a handful of short strings and one hash.
const maxRequestBody = 16 << 10

// maxDocumentBody caps archived documentation uploads.
const maxDocumentBody = 32 << 20

const contentTypeProtobuf = "application/x-protobuf"

var errBodyTooLarge = errors.New("request body too large")

func isProtobufType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == contentTypeProtobuf || mt == "application/protobuf"
}

// isProtobuf reports whether the request body is a protobuf Struct.
func isProtobuf(r *http.Request) bool {
	return isProtobufType(r.Header.Get("Content-Type"))
}

// wantsProtobuf reports whether the response should be a protobuf Struct:
// either asked for in Accept or implied by a protobuf request body.
func wantsProtobuf(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		if isProtobufType(strings.TrimSpace(part)) {
			return true
		}
	}
	return isProtobuf(r)
}

// decodeBody fills v from a JSON or protobuf Struct request body.  Unknown
// JSON fields are rejected.
func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
	if err != nil {
		return err
	}
	if len(body) > maxRequestBody {
		return errBodyTooLarge
	}

	if isProtobuf(r) {
		var s structpb.Struct
		if err := proto.Unmarshal(body, &s); err != nil {
			return err
		}
		return types.FromStruct(&s, v)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeProto marshals msg and writes it with the given HTTP status.
func writeProto(w http.ResponseWriter, status int, msg proto.Message) {
	data, err := proto.Marshal(msg)
	if err != nil {
		http.Error(w, "proto marshal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeProtobuf)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResponse encodes v in whichever form the client asked for.
func writeResponse(w http.ResponseWriter, r *http.Request, status int, v any) {
	if wantsProtobuf(r) {
		s, err := types.AsStruct(v)
		if err != nil {
			http.Error(w, "proto marshal error", http.StatusInternalServerError)
			return
		}
		writeProto(w, status, s)
		return
	}
	writeJSON(w, status, v)
}
