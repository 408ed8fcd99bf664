package service

import (
	"gorm.io/gorm"

	"metawards-uq/internal/config"
	"metawards-uq/internal/store"
)

type ServiceContext struct {
	Config        *config.Config
	DesignService *DesignService
	Preparer      *Preparer
	Collator      *Collator
}

func NewServiceContext(cfg *config.Config, conn *gorm.DB) *ServiceContext {
	return &ServiceContext{
		Config:        cfg,
		DesignService: NewDesignService(conn, cfg.Design, cfg.Output.Dir),
		Preparer:      NewPreparer(store.New(conn)),
		Collator:      NewCollator(),
	}
}
