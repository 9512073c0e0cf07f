package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/banglaqa/GoPDFQA/internal/adapter"
	"github.com/banglaqa/GoPDFQA/internal/adapter/utils"
	"github.com/banglaqa/GoPDFQA/internal/api"
	"github.com/banglaqa/GoPDFQA/internal/config"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
)

var logRH *logger_i.Logger

// supported upload types, everything else is rejected before a job is queued
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".docx": true,
	".rtf":  true,
	".odt":  true,
}

type newJobData struct {
	id              string
	question        string
	documentKey     string
	documentPath    string
	traceId         string
	isDocumentIndex bool
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// AskHandler queues a question against an already uploaded document and
// returns a job ID to poll.
func AskHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.AskRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Ask handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateAskRequest(requestData) {

			logRH.Warn("Bad Ask Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.DocumentKey, "Bad Request")
			return
		}

		documentPath := filepath.Join(config.DataDir(), requestData.DocumentKey)
		if _, err := os.Stat(documentPath); err != nil {
			logRH.Warn("Unknown document", "key", requestData.DocumentKey)
			WriteErrorResponse(w, http.StatusNotFound, requestData.DocumentKey, "Document not found")
			return
		}

		newJob := newJobData{
			id:           utils.GetNewUUID(),
			question:     requestData.Question,
			documentKey:  requestData.DocumentKey,
			documentPath: documentPath,
			traceId:      request.Context().Value(config.TRACE_ID_KEY).(string),
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler retrieves the current status of a job by ID.
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostDocumentHandler receives a file via multipart/form-data, stores it
// under the data directory keyed by its base name, and queues an index job.
// Re-uploading the same name replaces the document and rebuilds its index.
func PostDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()

		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		const maxUploadSize = 32 << 20 //32mb
		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		documentKey := filepath.Base(fileMetadata.Filename)
		ext := strings.ToLower(filepath.Ext(documentKey))
		if documentKey == "." || documentKey == string(filepath.Separator) || !allowedExtensions[ext] {
			WriteErrorResponse(w, http.StatusBadRequest, documentKey, "Unsupported document type")
			return
		}

		documentPath := filepath.Join(targetDir, documentKey)
		destinationFileWriter, err := os.Create(documentPath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, documentKey, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, documentKey, "Write error")
			return
		}

		newJob := newJobData{
			id:              utils.GetNewUUID(),
			documentKey:     documentKey,
			documentPath:    documentPath,
			traceId:         r.Context().Value(config.TRACE_ID_KEY).(string),
			isDocumentIndex: true,
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToUploadResponse(documentKey, newJob.id))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
