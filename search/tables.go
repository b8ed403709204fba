package search

// termGroup is a head term and its related terms, most related first.
type termGroup struct {
	head    string
	related []string
}

// synonymGroups pairs Korean and English names of the same technology or
// discipline. Order matters: expansion output follows it.
var synonymGroups = []termGroup{
	{"백엔드", []string{"backend", "서버", "server", "API", "서버사이드"}},
	{"프론트엔드", []string{"frontend", "클라이언트", "client", "UI", "UX", "웹"}},
	{"파이썬", []string{"python", "django", "flask", "fastapi", "py"}},
	{"자바스크립트", []string{"javascript", "js", "node", "react", "vue", "angular"}},
	{"데이터베이스", []string{"database", "db", "mysql", "postgresql", "mongodb", "sql"}},
	{"클라우드", []string{"cloud", "aws", "azure", "gcp", "kubernetes", "docker"}},
	{"개발", []string{"development", "coding", "programming", "구현", "코딩"}},
	{"프로젝트", []string{"project", "작업", "업무", "개발", "시스템"}},
	{"경험", []string{"experience", "이력", "업무", "프로젝트", "참여"}},
	{"성능", []string{"performance", "최적화", "optimization", "속도", "튜닝"}},
	{"보안", []string{"security", "암호화", "인증", "authorization", "권한"}},
	{"최적화", []string{"optimization", "performance", "tuning", "개선", "향상"}},
	{"아키텍처", []string{"architecture", "설계", "design", "구조", "시스템"}},

	// data engineering
	{"데이터엔지니어", []string{"data engineer", "데이터엔지니어링", "data engineering", "ETL", "파이프라인"}},
	{"데이터파이프라인", []string{"data pipeline", "ETL", "ELT", "데이터플로우", "workflow", "airflow"}},
	{"ETL", []string{"extract transform load", "데이터파이프라인", "데이터처리", "배치처리"}},
	{"ELT", []string{"extract load transform", "데이터레이크", "클라우드데이터"}},
	{"스트리밍", []string{"streaming", "실시간", "real-time", "kafka", "kinesis", "spark streaming"}},
	{"배치처리", []string{"batch processing", "스케줄링", "cron", "airflow", "luigi"}},

	// data science
	{"데이터사이언스", []string{"data science", "데이터분석", "통계분석", "예측모델링"}},
	{"데이터사이언티스트", []string{"data scientist", "분석가", "analyst", "연구원"}},
	{"데이터분석", []string{"data analysis", "analytics", "통계", "statistics", "시각화"}},
	{"통계", []string{"statistics", "통계학", "확률", "probability", "추론"}},
	{"예측모델링", []string{"predictive modeling", "forecasting", "예측", "모델링", "regression"}},
	{"분류", []string{"classification", "classifier", "supervised learning", "지도학습"}},
	{"회귀", []string{"regression", "linear regression", "예측", "연속값"}},
	{"클러스터링", []string{"clustering", "군집화", "unsupervised", "비지도학습"}},

	// machine learning
	{"머신러닝", []string{"machine learning", "ML", "AI", "인공지능", "딥러닝", "모델", "학습"}},
	{"딥러닝", []string{"deep learning", "neural network", "신경망", "CNN", "RNN", "transformer"}},
	{"인공지능", []string{"artificial intelligence", "AI", "머신러닝", "딥러닝", "자동화"}},
	{"신경망", []string{"neural network", "딥러닝", "퍼셉트론", "레이어", "노드"}},
	{"자연어처리", []string{"NLP", "natural language processing", "텍스트분석", "언어모델"}},
	{"컴퓨터비전", []string{"computer vision", "CV", "이미지처리", "객체인식", "CNN"}},
	{"추천시스템", []string{"recommendation system", "collaborative filtering", "개인화", "추천엔진"}},
	{"강화학습", []string{"reinforcement learning", "RL", "에이전트", "보상", "정책"}},

	// big data
	{"빅데이터", []string{"big data", "대용량데이터", "분산처리", "hadoop", "spark"}},
	{"하둡", []string{"hadoop", "HDFS", "mapreduce", "분산저장", "클러스터"}},
	{"스파크", []string{"spark", "apache spark", "분산처리", "인메모리", "실시간"}},
	{"카프카", []string{"kafka", "메시징", "스트리밍", "이벤트", "큐", "실시간"}},
	{"엘라스틱서치", []string{"elasticsearch", "검색엔진", "로그분석", "인덱싱", "kibana"}},

	// databases
	{"NoSQL", []string{"nosql", "mongodb", "cassandra", "redis", "비관계형"}},
	{"데이터웨어하우스", []string{"data warehouse", "DW", "OLAP", "dimensional modeling"}},
	{"데이터레이크", []string{"data lake", "S3", "저장소", "원시데이터", "스키마온리드"}},
	{"데이터마트", []string{"data mart", "부서별데이터", "요약데이터", "OLAP"}},

	// MLOps
	{"MLOps", []string{"mlops", "모델운영", "CI/CD", "모델배포", "모델관리"}},
	{"모델배포", []string{"model deployment", "serving", "추론", "production", "API"}},
	{"모델모니터링", []string{"model monitoring", "drift detection", "성능추적", "A/B테스트"}},
	{"피처엔지니어링", []string{"feature engineering", "변수생성", "전처리", "피처선택"}},
	{"하이퍼파라미터", []string{"hyperparameter", "튜닝", "최적화", "그리드서치"}},

	// visualization and BI
	{"시각화", []string{"visualization", "차트", "그래프", "대시보드", "plotting"}},
	{"대시보드", []string{"dashboard", "BI", "business intelligence", "리포팅"}},
	{"BI", []string{"business intelligence", "대시보드", "리포팅", "분석도구"}},
	{"태블로", []string{"tableau", "시각화도구", "대시보드", "셀프서비스"}},

	// languages and tools
	{"R", []string{"R언어", "통계분석", "데이터분석", "ggplot", "dplyr"}},
	{"SQL", []string{"데이터베이스", "쿼리", "조인", "집계", "분석"}},
	{"주피터", []string{"jupyter", "notebook", "ipython", "분석환경", "프로토타이핑"}},
	{"도커", []string{"docker", "컨테이너", "가상화", "배포", "환경관리"}},
	{"git", []string{"버전관리", "협업", "github", "gitlab", "소스관리"}},

	// domain
	{"A/B테스트", []string{"AB test", "실험설계", "통계검정", "가설검증"}},
	{"추천엔진", []string{"recommendation engine", "협업필터링", "개인화", "추천시스템"}},
	{"이상탐지", []string{"anomaly detection", "outlier", "fraud detection", "비정상"}},
	{"시계열", []string{"time series", "시간데이터", "예측", "트렌드", "계절성"}},
	{"텍스트마이닝", []string{"text mining", "자연어처리", "감정분석", "토픽모델링"}},
}

// techRelations maps a tool or library to neighbouring concepts.
var techRelations = []termGroup{
	{"python", []string{"pandas", "numpy", "scikit-learn", "데이터분석", "머신러닝"}},
	{"pandas", []string{"데이터프레임", "전처리", "데이터조작", "분석"}},
	{"numpy", []string{"수치계산", "배열", "선형대수", "과학계산"}},
	{"scikit-learn", []string{"머신러닝", "분류", "회귀", "클러스터링"}},
	{"matplotlib", []string{"시각화", "플롯", "차트", "그래프"}},
	{"seaborn", []string{"통계시각화", "히트맵", "분포", "상관관계"}},

	{"tensorflow", []string{"딥러닝", "신경망", "모델훈련", "케라스"}},
	{"pytorch", []string{"딥러닝", "동적그래프", "연구", "실험"}},
	{"keras", []string{"딥러닝", "고수준API", "빠른프로토타이핑"}},

	{"spark", []string{"분산처리", "빅데이터", "인메모리", "스케일링"}},
	{"hadoop", []string{"분산저장", "HDFS", "맵리듀스", "클러스터"}},
	{"kafka", []string{"실시간스트리밍", "메시지큐", "이벤트처리"}},
	{"airflow", []string{"워크플로우", "스케줄링", "데이터파이프라인", "오케스트레이션"}},

	{"postgresql", []string{"관계형DB", "ACID", "복잡쿼리", "분석"}},
	{"mongodb", []string{"NoSQL", "문서DB", "스키마리스", "확장성"}},
	{"redis", []string{"인메모리", "캐시", "세션저장", "실시간"}},
	{"elasticsearch", []string{"검색엔진", "전문검색", "로그분석", "집계"}},

	{"aws", []string{"S3", "EMR", "Redshift", "SageMaker", "Lambda"}},
	{"gcp", []string{"BigQuery", "Dataflow", "AI Platform", "Cloud ML"}},
	{"azure", []string{"Synapse", "Data Factory", "Machine Learning", "Cognitive Services"}},

	{"tableau", []string{"대시보드", "셀프서비스BI", "드래그앤드롭", "시각화"}},
	{"powerbi", []string{"마이크로소프트", "비즈니스인텔리전스", "리포팅"}},
	{"looker", []string{"모던BI", "데이터모델링", "SQL기반"}},

	{"mlflow", []string{"모델라이프사이클", "실험추적", "모델레지스트리"}},
	{"kubeflow", []string{"쿠버네티스", "ML워크플로우", "파이프라인"}},
	{"dvc", []string{"데이터버전관리", "ML실험", "재현가능성"}},

	{"lightgbm", []string{"그래디언트부스팅", "빠른학습", "메모리효율"}},
	{"xgboost", []string{"앙상블", "부스팅", "구조화데이터", "경진대회"}},
	{"catboost", []string{"범주형데이터", "그래디언트부스팅", "자동화"}},
	{"spacy", []string{"자연어처리", "NER", "품사태깅", "언어모델"}},
	{"nltk", []string{"자연어처리", "토큰화", "형태소분석", "코퍼스"}},
	{"opencv", []string{"컴퓨터비전", "이미지처리", "객체인식", "영상분석"}},

	{"scipy", []string{"과학계산", "최적화", "통계", "신호처리"}},
	{"statsmodels", []string{"통계모델링", "회귀분석", "시계열", "가설검정"}},
	{"networkx", []string{"그래프분석", "네트워크", "소셜네트워크", "관계분석"}},
}

// dataContexts adds task words for generic data/AI head words.
var dataContexts = []termGroup{
	{"분석", []string{"데이터분석", "통계", "인사이트", "리포팅"}},
	{"모델", []string{"머신러닝", "예측", "알고리즘", "훈련"}},
	{"처리", []string{"전처리", "ETL", "파이프라인", "변환"}},
	{"시각화", []string{"차트", "대시보드", "그래프", "플롯"}},
	{"예측", []string{"모델링", "포캐스팅", "회귀", "분류"}},
	{"추천", []string{"개인화", "협업필터링", "랭킹", "매칭"}},
}

// Per-table expansion limits.
const (
	synonymLimit  = 4
	siblingLimit  = 3
	relationLimit = 3
	contextLimit  = 2
)
