package handlers

import (
	"net/http"
	"strconv"

	"collabuu-backend/ledger"
	"collabuu-backend/middleware"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	Ledger *ledger.Ledger
}

func (h *LedgerHandler) GetBalance(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	balance, err := h.Ledger.CurrentBalance(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"principal_id": principal.ID, "balance": balance})
}

func (h *LedgerHandler) GetEntries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.Ledger.Entries(c.Request.Context(), middleware.CurrentPrincipal(c).ID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
