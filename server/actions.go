package server

import (
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-clinic-console/clinic"
	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
	"github.com/jrsteele09/go-clinic-console/stores"
	"github.com/rs/zerolog/log"
)

// completionRequest is the body of POST /rdv/{...}/realise.
type completionRequest struct {
	Grade   *float64 `json:"noteStagiaire"`
	Comment *string  `json:"commentaireStagiaire"`
}

type invoiceServicesRequest struct {
	IDs []int `json:"ids"`
}

// statusFor maps a store failure onto the console's own response code.
func statusFor(err error) int {
	switch {
	case clinicerrors.Is(err, clinicerrors.ErrStaleSession):
		return http.StatusUnauthorized
	case clinicerrors.Is(err, clinicerrors.ErrAuthorizationDenied):
		return http.StatusForbidden
	case clinicerrors.Is(err, clinicerrors.ErrNotFound):
		return http.StatusNotFound
	case clinicerrors.Is(err, clinicerrors.ErrTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func pathInts(r *http.Request, names ...string) ([]int, error) {
	values := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(r.PathValue(name))
		if err != nil {
			return nil, clinicerrors.Wrapf(clinicerrors.ErrInvalidRequest, "path value %s", name)
		}
		values[i] = v
	}
	return values, nil
}

func (s *Server) CompleteAppointmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := pathInts(r, "employee", "prestation", "patient", "trainee")
		if err != nil {
			badRequest(w, err, "Rendez-vous invalide")
			return
		}
		var req completionRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(r, &req); err != nil {
				badRequest(w, err, "Requête invalide")
				return
			}
		}

		key := clinic.AppointmentKey{EmployeeID: ids[0], PrestationID: ids[1], PatientID: ids[2], TraineeID: ids[3]}
		appt, err := s.stores.Appointments.MarkCompleted(r.Context(), key, req.Grade, req.Comment)
		if err != nil {
			log.Err(err).Str("rdv", key.Path()).Msg("failed to complete appointment")
			writeError(w, statusFor(err), stores.ErrorMessage(err))
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func (s *Server) InvoiceServicesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req invoiceServicesRequest
		if err := decodeJSON(r, &req); err != nil || len(req.IDs) == 0 {
			badRequest(w, invalidRequest(err, "no service ids"), "Aucune prestation sélectionnée")
			return
		}

		completed := s.stores.CompletedServices
		if err := completed.MarkManyInvoiced(r.Context(), req.IDs); err != nil {
			log.Err(err).Ints("ids", req.IDs).Msg("failed to invoice services")
			writeError(w, statusFor(err), stores.ErrorMessage(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"invoiced":        len(req.IDs),
			"amountToInvoice": completed.AmountToInvoice(),
		})
	}
}

func (s *Server) InvoiceStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := pathInts(r, "id")
		if err != nil {
			badRequest(w, err, "Facture invalide")
			return
		}
		var update clinic.StatusUpdate
		if err := decodeJSON(r, &update); err != nil || update.Status == "" {
			badRequest(w, invalidRequest(err, "missing status"), "Statut requis")
			return
		}

		invoices := s.stores.Invoices
		if err := invoices.UpdateStatus(r.Context(), ids[0], update); err != nil {
			log.Err(err).Int("facture", ids[0]).Msg("failed to update invoice status")
			writeError(w, statusFor(err), stores.ErrorMessage(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
