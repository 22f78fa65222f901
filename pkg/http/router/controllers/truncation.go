package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/trajtrunc/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/trajtrunc/pkg/truncation"
	"go.uber.org/zap"
)

// max request body, a day of 1 Hz samples fits comfortably
const maxBodyBytes = 16 << 20

type truncationAPI struct {
	truncationService TruncationService
	log               *zap.Logger
}

func New(truncationService TruncationService, log *zap.Logger) *truncationAPI {
	return &truncationAPI{
		truncationService: truncationService,
		log:               log,
	}
}

func (api *truncationAPI) Routes(group *helper.RouteGroup) {
	group.POST("/truncate", api.truncate)
}

// truncate
//
//	@Summary		truncate a trajectory around its sensitive locations
//	@Description	removes the points that reveal a protected sensitive location and returns the disclosed points in time order
//	@Tags			truncation
//	@Accept			json
//	@Produce		json
//	@Param			body	body		truncateRequest	true	"trajectory points"
//	@Success		200		{object}	truncateResponse
//	@Failure		400		{object}	errorResponse
//	@Failure		422		{object}	errorResponse
//	@Failure		500		{object}	errorResponse
//	@Router			/truncate [post]
func (api *truncationAPI) truncate(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request truncateRequest
		err     error
	)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err = json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	validate := validator.New()

	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	id := request.ID
	if id == "" {
		id = uuid.NewString()
	}
	traj, err := request.toTrajectory(id)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	opts := make([]truncation.Option, 0, 3)
	if request.AddEndpoints != nil {
		opts = append(opts, truncation.WithEndpoints(*request.AddEndpoints))
	}
	if request.AddStops != nil {
		opts = append(opts, truncation.WithStops(*request.AddStops))
	}
	if request.Alpha != nil {
		opts = append(opts, truncation.WithAlpha(*request.Alpha))
	}

	res, err := api.truncationService.Truncate(r.Context(), traj, opts...)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewTruncateResponse(res.Trajectory, res.Removed)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
