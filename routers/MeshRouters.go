package routers

import (
	"github.com/GrainArc/MeshMap/views"
	"github.com/gin-gonic/gin"
)

func MeshRouters(r *gin.Engine) {
	MeshCtrl := &views.MeshController{}
	meshRouter := r.Group("/mesh")
	{
		meshRouter.POST("/ConvertModel", MeshCtrl.ConvertModel)
		meshRouter.POST("/ConvertElement", MeshCtrl.ConvertElement)
		meshRouter.GET("/ConvertRecord", MeshCtrl.ConvertRecord)
		meshRouter.POST("/OutShp", MeshCtrl.OutShp)
	}
}
